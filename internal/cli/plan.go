package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kb-labs/setup-engine/analyzer"
	"github.com/kb-labs/setup-engine/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Analyze the manifest and print the resulting execution plan",
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

		fs, reg, _ := realDeps()

		results, err := analyzer.New(fs, reg).AnalyzeAll(entries, workspaceRoot)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		plan := planner.New(fs, reg).Plan(entries, results, workspaceRoot)

		PrintSection("Stages")
		for _, stage := range plan.Stages {
			PrintStage(stage)
		}

		PrintSection("Risk")
		fmt.Print("  overall: ")
		PrintRisk(plan.Risks.Overall)
		fmt.Println()

		PrintSection("Diff")
		PrintDiffSummary(plan.Diff.Summary)
		PrintFileDiffs(plan.Diff.Files)

		if len(plan.Warnings) > 0 {
			PrintSection("Warnings")
			for _, warning := range plan.Warnings {
				PrintWarning(warning)
			}
		}

		return nil
	},
}
