// Package planner resolves inter-operation dependencies into ordered
// execution stages and synthesizes the diff and risk summary a caller
// inspects before applying.
package planner

import (
	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/operation"
)

// Stage is a set of mutually-independent operations from one level of the
// dependency topological sort.
type Stage struct {
	ID         string             `json:"id"`
	Operations []operation.Entry  `json:"operations"`
	Parallel   bool               `json:"parallel"`
}

// FileStatus classifies how a file operation changes the workspace.
type FileStatus string

const (
	FileCreated  FileStatus = "created"
	FileModified FileStatus = "modified"
	FileDeleted  FileStatus = "deleted"
)

// FilePreview carries the before/after content shown in a plan diff.
type FilePreview struct {
	Before *string `json:"before,omitempty"`
	After  *string `json:"after,omitempty"`
}

// FileDiff describes the effect of one file operation.
type FileDiff struct {
	Path    string       `json:"path"`
	Status  FileStatus   `json:"status"`
	Preview *FilePreview `json:"preview,omitempty"`
}

// ConfigDiff describes the effect of one config operation at a single
// pointer.
type ConfigDiff struct {
	Path    string  `json:"path"`
	Pointer string  `json:"pointer"`
	Before  any     `json:"before,omitempty"`
	After   any     `json:"after,omitempty"`
}

// DiffSummary counts diff entries by their resulting status.
type DiffSummary struct {
	Created  int `json:"created"`
	Modified int `json:"modified"`
	Deleted  int `json:"deleted"`
}

// PlanDiff aggregates every file and config diff produced for a plan.
type PlanDiff struct {
	Files   []FileDiff   `json:"files"`
	Configs []ConfigDiff `json:"configs"`
	Summary DiffSummary  `json:"summary"`
}

// RiskAssessment rolls up per-operation risk into an overall verdict.
type RiskAssessment struct {
	Overall     analysis.RiskLevel            `json:"overall"`
	ByOperation map[string]analysis.RiskLevel `json:"byOperation"`
}

// ExecutionPlan is the planner's complete output: ordered stages, a diff,
// a risk assessment, and any warnings raised while building either.
type ExecutionPlan struct {
	Stages   []Stage        `json:"stages"`
	Diff     PlanDiff       `json:"diff"`
	Risks    RiskAssessment `json:"risks"`
	Warnings []string       `json:"warnings,omitempty"`
}
