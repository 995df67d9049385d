// Package setup wires the analyzer, planner, and executor into a single
// convenience call for callers who don't need to inspect the plan before
// applying it. Callers who do (interactive confirmation, --dry-run
// previews) invoke the three stages directly instead.
package setup

import (
	"context"
	"fmt"

	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/analyzer"
	"github.com/kb-labs/setup-engine/executor"
	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/journal"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/planner"
	"github.com/kb-labs/setup-engine/registry"
)

// RunOptions configures one end-to-end Run call.
type RunOptions struct {
	WorkspaceRoot string
	BackupDir     string
	DryRun        bool
	AutoConfirm   bool

	// FS and Clock default to fsops.NewRealFS and journal.RealClock; tests
	// substitute fakes.
	FS    fsops.FS
	Clock journal.Clock

	// Registry supplies per-kind overrides to all three stages. Nil means
	// no overrides.
	Registry *registry.Registry

	OnProgress func(executor.ProgressEvent)
}

// RunResult carries the output of each stage the orchestrator ran.
type RunResult struct {
	Analysis map[string]analysis.Result
	Plan     planner.ExecutionPlan
	Result   executor.Result
}

// Run analyzes entries, plans them, and (unless opts.DryRun) applies the
// plan, checking ctx between stages so a caller can cancel a long-running
// call between the boundaries the engine actually has.
func Run(ctx context.Context, entries []operation.Entry, opts RunOptions) (*RunResult, error) {
	if opts.WorkspaceRoot == "" {
		return nil, fmt.Errorf("setup: WorkspaceRoot is required")
	}

	fs := opts.FS
	if fs == nil {
		fs = fsops.NewRealFS()
	}
	clk := opts.Clock
	if clk == nil {
		clk = &journal.RealClock{}
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := analyzer.New(fs, reg)
	results, err := a.AnalyzeAll(entries, opts.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("setup: analysis failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := planner.New(fs, reg)
	plan := p.Plan(entries, results, opts.WorkspaceRoot)

	result := &RunResult{Analysis: results, Plan: plan}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	ex := executor.New(fs, reg, clk)
	execResult, err := ex.Execute(plan, executor.Options{
		DryRun:        opts.DryRun,
		AutoConfirm:   opts.AutoConfirm,
		WorkspaceRoot: opts.WorkspaceRoot,
		BackupDir:     opts.BackupDir,
		Journal:       journal.New(clk),
		OnProgress:    opts.OnProgress,
	})
	if err != nil {
		return result, fmt.Errorf("setup: execution failed: %w", err)
	}

	result.Result = execResult
	return result, nil
}
