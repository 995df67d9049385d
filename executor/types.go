package executor

import (
	"github.com/kb-labs/setup-engine/journal"
	"github.com/kb-labs/setup-engine/operation"
)

// ProgressStatus is the lifecycle state of an operation during execution.
type ProgressStatus string

const (
	StatusPending   ProgressStatus = "pending"
	StatusRunning   ProgressStatus = "running"
	StatusCompleted ProgressStatus = "completed"
	StatusSkipped   ProgressStatus = "skipped"
	StatusFailed    ProgressStatus = "failed"
)

// ProgressEvent is emitted synchronously via Options.OnProgress as each
// operation moves through its lifecycle.
type ProgressEvent struct {
	StageID   string
	Operation operation.Entry
	Status    ProgressStatus
	Err       error
}

// Options configures one Execute call.
type Options struct {
	DryRun        bool
	AutoConfirm   bool
	WorkspaceRoot string
	BackupDir     string

	// Journal receives before/after snapshots for every mutation. When nil,
	// a fresh journal is created for the run; like a supplied one, it is
	// persisted to BackupDir after a successful real run.
	Journal *journal.Journal

	OnProgress func(ProgressEvent)
}

// FailedOperation records the operation Execute stopped on and why.
type FailedOperation struct {
	Operation operation.Entry
	Err       error
}

// Result is the outcome of one Execute call.
type Result struct {
	Success           bool
	Applied           []operation.Entry
	Failed            *FailedOperation
	RollbackAvailable bool
	LogPath           string
	Artifacts         journal.Artifacts
}

// mutation records one filesystem change so it can be undone in reverse
// order if a later operation in the same run fails.
type mutation struct {
	targetPath    string
	backupPath    string
	existedBefore bool
}
