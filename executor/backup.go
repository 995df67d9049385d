package executor

import (
	"fmt"
	"path/filepath"
	"strings"
)

var sanitizeReplacer = func(r rune) rune {
	if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
		return r
	}
	return '_'
}

func sanitizeForFilename(s string) string {
	return strings.Map(sanitizeReplacer, s)
}

// backupFilename builds the "<unix-ms>-<sanitised-opId>-<sanitised-relPath>.bak"
// backup name for opID's mutation of relPath at unixMillis.
func backupFilename(unixMillis int64, opID, relPath string) string {
	return fmt.Sprintf("%d-%s-%s.bak", unixMillis, sanitizeForFilename(opID), sanitizeForFilename(relPath))
}

// backupIfExists copies the target to backupDir when it currently exists,
// returning the backup path (or "" if there was nothing to back up).
func (r *run) backupIfExists(targetPath, opID, relPath string) (string, error) {
	exists, err := r.fs.Exists(targetPath)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}

	name := backupFilename(r.clock.Now().UnixMilli(), opID, relPath)
	backupPath := filepath.Join(r.backupDir, name)
	if err := r.fs.Copy(targetPath, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", relPath, err)
	}
	return backupPath, nil
}

// rollbackMutations walks mutations in reverse: restoring each target from
// its backup, or removing it if this run created it from nothing.
func (r *run) rollbackMutations() {
	for i := len(r.mutations) - 1; i >= 0; i-- {
		m := r.mutations[i]
		if m.backupPath != "" {
			_ = r.fs.Copy(m.backupPath, m.targetPath)
			continue
		}
		if !m.existedBefore {
			_ = r.fs.Remove(m.targetPath)
		}
	}
}
