// Package config resolves the workspace root and backup directory the setup
// engine operates against.
//
// The workspace root must be supplied by the caller (there is no ambient
// discovery of "the current workspace" the way monodev walks up to a .git
// directory) - the engine is a library and does not guess at scope. The
// backup directory defaults to a well-known location under the workspace
// and can be overridden via environment variable or a .env file dropped at
// the workspace root.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// BackupDirEnvVar overrides the default backup directory when set.
const BackupDirEnvVar = "KBSETUP_BACKUP_DIR"

// defaultBackupDirRel is joined onto WorkspaceRoot when no override applies.
const defaultBackupDirRel = ".kb/logs/setup"

// Paths contains the resolved filesystem locations the engine reads and
// writes.
type Paths struct {
	// WorkspaceRoot is the absolute root of the workspace being set up.
	WorkspaceRoot string

	// BackupDir is the absolute directory where per-operation backups and
	// the persisted journal log are written.
	BackupDir string
}

// Resolve computes Paths for workspaceRoot, which must be a non-empty
// absolute path. It loads a .env file at the workspace root, if present,
// before consulting KBSETUP_BACKUP_DIR so a workspace can pin its own
// backup location without CLI flags or exported environment state.
func Resolve(workspaceRoot string) (*Paths, error) {
	if workspaceRoot == "" {
		return nil, fmt.Errorf("workspace root is empty")
	}
	if !filepath.IsAbs(workspaceRoot) {
		return nil, fmt.Errorf("workspace root %q must be absolute", workspaceRoot)
	}
	root := filepath.Clean(workspaceRoot)

	envPath := filepath.Join(root, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}

	backupDir := os.Getenv(BackupDirEnvVar)
	if backupDir == "" {
		backupDir = filepath.Join(root, filepath.FromSlash(defaultBackupDirRel))
	} else if !filepath.IsAbs(backupDir) {
		backupDir = filepath.Join(root, backupDir)
	}

	return &Paths{
		WorkspaceRoot: root,
		BackupDir:     filepath.Clean(backupDir),
	}, nil
}

// EnsureBackupDir creates the backup directory if it doesn't already exist.
func (p *Paths) EnsureBackupDir() error {
	if err := os.MkdirAll(p.BackupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", p.BackupDir, err)
	}
	return nil
}
