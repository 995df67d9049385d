package journal

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/kb-labs/setup-engine/internal/fsops"
)

// logEnvelope wraps a run's entries with its run id so that multiple runs'
// logs sitting in the same backup directory remain individually
// identifiable, without changing the per-entry shape.
type logEnvelope struct {
	RunID   string  `json:"runID"`
	Entries []Entry `json:"entries"`
}

// Persist writes j's entries, wrapped with its run id in a logEnvelope, as
// pretty JSON to "<backupDir>/<unix-ms>-setup-log.json" and records the
// resulting path via
// SetLogPath. It is a no-op if the journal has no entries or has already
// been persisted.
func Persist(j *Journal, fs fsops.FS, backupDir string) (string, error) {
	if len(j.entries) == 0 || j.logPath != "" {
		return j.logPath, nil
	}

	envelope := logEnvelope{RunID: j.RunID, Entries: j.GetEntries()}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal journal: %w", err)
	}

	path := filepath.Join(backupDir, strconv.FormatInt(j.clock.Now().UnixMilli(), 10)+"-setup-log.json")
	if err := fs.AtomicWrite(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write journal log: %w", err)
	}

	j.SetLogPath(path)
	return path, nil
}

// Load reads a persisted log file and returns its entries. Load is the
// inverse of Persist: for entries with untruncated content, Load(Persist(e))
// reproduces e exactly, since JSON marshal/unmarshal round-trips the
// Entry/Snapshot shape without loss.
func Load(fs fsops.FS, path string) (runID string, entries []Entry, err error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read journal log: %w", err)
	}

	var envelope logEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", nil, fmt.Errorf("failed to parse journal log: %w", err)
	}

	return envelope.RunID, envelope.Entries, nil
}
