package cli

import (
	"fmt"
	"os"

	"github.com/kb-labs/setup-engine/internal/config"
	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/internal/manifest"
	"github.com/kb-labs/setup-engine/journal"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/registry"
)

var (
	flagManifest  string
	flagWorkspace string
)

// resolveWorkspaceRoot returns the --workspace flag if set, otherwise the
// current working directory.
func resolveWorkspaceRoot() (string, error) {
	if flagWorkspace != "" {
		return flagWorkspace, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// loadEntries loads and validates the manifest named by --manifest.
func loadEntries() ([]operation.Entry, error) {
	if flagManifest == "" {
		return nil, fmt.Errorf("--manifest is required")
	}
	return manifest.Load(flagManifest)
}

// realDeps bundles the concrete FS, registry, and clock a command needs.
// The registry is always empty; kbsetup has no built-in per-kind overrides
// of its own, it just runs the engine's built-in analyzer/planner/executor.
func realDeps() (fsops.FS, *registry.Registry, journal.Clock) {
	return fsops.NewRealFS(), registry.New(), &journal.RealClock{}
}

// resolvePaths loads workspace/backup-dir configuration, including any
// .env override, for the resolved workspace root.
func resolvePaths(workspaceRoot string) (*config.Paths, error) {
	paths, err := config.Resolve(workspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config paths: %w", err)
	}
	if err := paths.EnsureBackupDir(); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return paths, nil
}
