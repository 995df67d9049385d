// Package executor applies an ExecutionPlan transactionally: it
// short-circuits already-satisfied operations, backs up anything it
// overwrites, walks a mutation log to roll back everything a run touched if
// any operation fails, and hands every mutation to a journal for replay.
//
// Execution is single-threaded and sequential, both across stages and
// within a stage - the planner's parallel flag on a stage is advisory only.
package executor

import (
	"errors"
	"fmt"

	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/journal"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/planner"
	"github.com/kb-labs/setup-engine/registry"
)

// Executor applies plans built by package planner.
type Executor struct {
	fs       fsops.FS
	registry *registry.Registry
	clock    journal.Clock
}

// New returns an Executor that mutates the workspace through fs, consults
// reg for per-kind overrides, and stamps backups and journal entries using
// clk.
func New(fs fsops.FS, reg *registry.Registry, clk journal.Clock) *Executor {
	return &Executor{fs: fs, registry: reg, clock: clk}
}

// run holds the mutable state of a single Execute call, kept off Executor
// itself so one Executor can safely run multiple plans (sequentially).
type run struct {
	fs       fsops.FS
	registry *registry.Registry
	clock    journal.Clock

	workspaceRoot string
	backupDir     string
	autoConfirm   bool
	dryRun        bool
	journal       *journal.Journal
	onProgress    func(ProgressEvent)

	mutations []mutation
}

// Execute applies plan's stages in order, sequentially within each stage.
func (ex *Executor) Execute(plan planner.ExecutionPlan, opts Options) (Result, error) {
	j := opts.Journal
	if j == nil {
		j = journal.New(ex.clock)
	}

	r := &run{
		fs:            ex.fs,
		registry:      ex.registry,
		clock:         ex.clock,
		workspaceRoot: opts.WorkspaceRoot,
		backupDir:     opts.BackupDir,
		autoConfirm:   opts.AutoConfirm,
		dryRun:        opts.DryRun,
		journal:       j,
		onProgress:    opts.OnProgress,
	}

	var applied []operation.Entry

	for _, stage := range plan.Stages {
		for _, entry := range stage.Operations {
			r.emit(stage.ID, entry, statusForStart(r.dryRun), nil)

			changed, err := r.runOne(entry)
			if err != nil {
				r.emit(stage.ID, entry, StatusFailed, err)
				r.rollbackMutations()
				return Result{
					Success:           false,
					Applied:           applied,
					Failed:            &FailedOperation{Operation: entry, Err: err},
					RollbackAvailable: !r.dryRun,
				}, nil
			}

			if r.dryRun {
				r.emit(stage.ID, entry, StatusSkipped, nil)
				continue
			}

			if changed {
				applied = append(applied, entry)
			}
			r.emit(stage.ID, entry, StatusCompleted, nil)
		}
	}

	result := Result{
		Success:           true,
		Applied:           applied,
		RollbackAvailable: !r.dryRun,
		Artifacts:         j.GetArtifacts(),
	}

	if !r.dryRun {
		logPath, err := journal.Persist(j, ex.fs, r.backupDir)
		if err != nil {
			return Result{}, fmt.Errorf("failed to persist journal: %w", err)
		}
		result.LogPath = logPath
		result.Artifacts = j.GetArtifacts()
	}

	return result, nil
}

func statusForStart(dryRun bool) ProgressStatus {
	if dryRun {
		return StatusPending
	}
	return StatusRunning
}

func (r *run) emit(stageID string, entry operation.Entry, status ProgressStatus, err error) {
	if r.onProgress == nil {
		return
	}
	r.onProgress(ProgressEvent{StageID: stageID, Operation: entry, Status: status, Err: err})
}

// runOne dispatches one operation to its executor (registered override
// first, then a built-in kind handler) and reports whether it changed the
// workspace. Every mutating step goes through the journal.
func (r *run) runOne(entry operation.Entry) (changed bool, err error) {
	if pair, ok := r.registry.Executor(entry.Operation.Kind); ok {
		return r.runRegistered(entry, pair)
	}

	switch entry.Operation.Kind {
	case operation.KindFile:
		return r.runBuiltin(entry, r.applyFile)
	case operation.KindConfig:
		return r.runBuiltin(entry, r.applyConfig)
	case operation.KindScript:
		return r.runBuiltin(entry, r.applyScript)
	default:
		if r.dryRun {
			return false, nil
		}
		return false, fmt.Errorf("%w: %s", ErrUnsupportedKind, entry.Operation.Kind)
	}
}

func (r *run) runRegistered(entry operation.Entry, pair registry.ExecutorPair) (bool, error) {
	ctx := registry.ExecContext{WorkspaceRoot: r.workspaceRoot, BackupDir: r.backupDir, AutoConfirm: r.autoConfirm}

	if r.dryRun {
		if pair.Simulate == nil {
			return false, nil
		}
		_, err := pair.Simulate(entry, ctx)
		return false, err
	}
	if pair.Execute == nil {
		return false, fmt.Errorf("%w: %s has no registered execute handler", ErrUnsupportedKind, entry.Operation.Kind)
	}

	before := r.snapshotTarget(entry)
	outcome, err := pair.Execute(entry, ctx)
	if err != nil {
		return false, err
	}
	r.journalMutation(entry, before, outcome.BackupPath)
	return outcome.Changed, nil
}

func (r *run) runBuiltin(entry operation.Entry, apply func(operation.Entry) (registry.ExecuteOutcome, error)) (bool, error) {
	if r.dryRun {
		if entry.Operation.Kind == operation.KindFile {
			_, err := r.resolveFileContent(entry)
			return false, err
		}
		return false, nil
	}

	before := r.snapshotTarget(entry)
	outcome, err := apply(entry)
	if err != nil {
		return false, err
	}
	r.journalMutation(entry, before, outcome.BackupPath)
	return outcome.Changed, nil
}

// snapshotTarget reads the pre-mutation bytes of entry's target, if it
// resolves to a path under the workspace, and opens a journal entry for it.
func (r *run) snapshotTarget(entry operation.Entry) *journal.Entry {
	path, ok := targetPath(entry)
	if !ok {
		return r.journal.BeforeOperation(entry, false, nil)
	}

	resolved, err := fsops.ResolveWorkspacePath(r.workspaceRoot, path)
	if err != nil {
		return r.journal.BeforeOperation(entry, false, nil)
	}

	exists, err := r.fs.Exists(resolved)
	if err != nil || !exists {
		return r.journal.BeforeOperation(entry, false, nil)
	}

	data, err := r.fs.ReadFile(resolved)
	if err != nil {
		return r.journal.BeforeOperation(entry, false, nil)
	}
	return r.journal.BeforeOperation(entry, true, data)
}

func (r *run) journalMutation(entry operation.Entry, before *journal.Entry, backupPath string) {
	path, ok := targetPath(entry)
	if !ok {
		r.journal.AfterOperation(before, false, nil, backupPath)
		return
	}

	resolved, err := fsops.ResolveWorkspacePath(r.workspaceRoot, path)
	if err != nil {
		r.journal.AfterOperation(before, false, nil, backupPath)
		return
	}

	exists, err := r.fs.Exists(resolved)
	if err != nil || !exists {
		r.journal.AfterOperation(before, false, nil, backupPath)
		return
	}

	data, err := r.fs.ReadFile(resolved)
	if err != nil {
		r.journal.AfterOperation(before, false, nil, backupPath)
		return
	}
	r.journal.AfterOperation(before, true, data, backupPath)
}

func targetPath(entry operation.Entry) (string, bool) {
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

// IsPathEscape reports whether err (or a wrapped cause) is ErrPathEscape.
func IsPathEscape(err error) bool { return errors.Is(err, ErrPathEscape) }
