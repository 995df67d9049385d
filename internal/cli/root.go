package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "kbsetup",
	Version:       "dev",
	Short:         "Declarative workspace setup engine",
	Long:          `kbsetup analyzes, plans, and applies declarative workspace setup manifests: files, JSON config edits, and package-script entries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion overrides the CLI's reported version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagManifest, "manifest", "f", "", "path to the operations manifest (JSON or YAML)")
	rootCmd.PersistentFlags().StringVarP(&flagWorkspace, "workspace", "w", "", "workspace root (default: current directory)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(rollbackCmd)
}
