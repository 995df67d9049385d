package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/journal"
	"github.com/kb-labs/setup-engine/operation"
)

var rollbackLogPath string

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore a workspace from a persisted journal log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollbackLogPath == "" {
			return fmt.Errorf("--log is required")
		}

		workspaceRoot, err := resolveWorkspaceRoot()
		if err != nil {
			return err
		}

		fs := fsops.NewRealFS()
		runID, entries, err := journal.Load(fs, rollbackLogPath)
		if err != nil {
			return fmt.Errorf("failed to load journal log: %w", err)
		}

		PrintSection(fmt.Sprintf("Rolling back run %s", runID))

		for i := len(entries) - 1; i >= 0; i-- {
			if err := restoreEntry(fs, workspaceRoot, entries[i]); err != nil {
				PrintError(fmt.Sprintf("%s: %v", entries[i].Operation.Metadata.ID, err))
				return fmt.Errorf("rollback stopped: %w", err)
			}
			PrintSuccess(entries[i].Operation.Metadata.ID)
		}

		return nil
	},
}

func init() {
	rollbackCmd.Flags().StringVar(&rollbackLogPath, "log", "", "path to a setup-log.json file produced by apply")
}

// restoreEntry undoes one journal entry: a file that was backed up is
// restored from its backup, and a file this run created from nothing is
// removed.
func restoreEntry(fs fsops.FS, workspaceRoot string, e journal.Entry) error {
	path, ok := journalTargetPath(e.Operation)
	if !ok {
		return nil
	}

	target, err := fsops.ResolveWorkspacePath(workspaceRoot, path)
	if err != nil {
		return err
	}

	if e.BackupPath != "" {
		return fs.Copy(e.BackupPath, target)
	}
	if !e.Before.Exists {
		exists, err := fs.Exists(target)
		if err != nil || !exists {
			return err
		}
		return fs.Remove(target)
	}
	return nil
}

func journalTargetPath(entry operation.Entry) (string, bool) {
	switch entry.Operation.Kind {
	case operation.KindFile:
		return entry.Operation.File.Path, true
	case operation.KindConfig:
		return entry.Operation.Config.Path, true
	case operation.KindScript:
		return entry.Operation.Script.File, true
	default:
		return "", false
	}
}
