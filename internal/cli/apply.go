package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kb-labs/setup-engine/executor"
	"github.com/kb-labs/setup-engine/setup"
)

var (
	applyDryRun      bool
	applyAutoConfirm bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Analyze, plan, and apply the manifest to the workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := loadEntries()
		if err != nil {
			return err
		}

		workspaceRoot, err := resolveWorkspaceRoot()
		if err != nil {
			return err
		}

		paths, err := resolvePaths(workspaceRoot)
		if err != nil {
			return err
		}

		fs, reg, clk := realDeps()

		result, err := setup.Run(context.Background(), entries, setup.RunOptions{
			WorkspaceRoot: paths.WorkspaceRoot,
			BackupDir:     paths.BackupDir,
			DryRun:        applyDryRun,
			AutoConfirm:   applyAutoConfirm,
			FS:            fs,
			Clock:         clk,
			Registry:      reg,
			OnProgress: func(e executor.ProgressEvent) {
				if e.Status == executor.StatusCompleted {
					PrintSuccess(fmt.Sprintf("%s: %s", e.Operation.Operation.Kind, e.Operation.Metadata.ID))
				}
			},
		})
		if err != nil {
			return fmt.Errorf("apply failed: %w", err)
		}

		if applyDryRun {
			PrintSection("Dry Run")
			PrintDiffSummary(result.Plan.Diff.Summary)
			return nil
		}

		if !result.Result.Success {
			PrintError(fmt.Sprintf("apply stopped on %s: %v", result.Result.Failed.Operation.Metadata.ID, result.Result.Failed.Err))
			if result.Result.RollbackAvailable {
				PrintWarning("earlier operations in this run were rolled back automatically")
			}
			return fmt.Errorf("apply failed")
		}

		PrintSuccess(fmt.Sprintf("applied %d operation(s)", len(result.Result.Applied)))
		if result.Result.LogPath != "" {
			fmt.Printf("  journal: %s\n", result.Result.LogPath)
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "preview the plan without applying it")
	applyCmd.Flags().BoolVar(&applyAutoConfirm, "yes", false, "auto-confirm overwriting script entries whose conflict resolution is prompt")
}
