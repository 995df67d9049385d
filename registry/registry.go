// Package registry lets callers override how the engine analyzes, diffs,
// and executes operations of a given kind, and is the sole extension point
// for kinds the core executor doesn't implement (code).
//
// Registered handlers always take precedence over the engine's built-in
// per-kind logic; lookups are fallbacks-first, so a caller who registers a
// handler for "file" replaces the built-in file handling entirely for that
// run.
package registry

import (
	"sort"

	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/operation"
)

// Context is passed to analyzer and diff-builder handlers.
type Context struct {
	WorkspaceRoot string
}

// ExecContext is passed to executor handlers.
type ExecContext struct {
	WorkspaceRoot string
	BackupDir     string
	AutoConfirm   bool
}

// ExecuteOutcome is what an executor handler reports back.
type ExecuteOutcome struct {
	Changed    bool
	BackupPath string
}

// AnalyzerHandler inspects the current workspace state for one operation.
type AnalyzerHandler func(entry operation.Entry, ctx Context) (analysis.Result, error)

// DiffBuilder produces a diff entry for one operation. The concrete return
// type is either *planner.FileDiff or *planner.ConfigDiff; the planner
// package (not this one) owns those types and type-switches on the result,
// which keeps registry from importing planner and planner from importing
// registry.
type DiffBuilder func(entry operation.Entry, result analysis.Result, ctx Context) (any, error)

// ExecuteFunc applies (or, as Simulate, previews) one operation.
type ExecuteFunc func(entry operation.Entry, ctx ExecContext) (ExecuteOutcome, error)

// ExecutorPair is the executor override for one kind. Simulate is optional;
// when nil, dry-run for that kind performs no check at all (the built-in
// content resolution check is not run for an overridden kind).
type ExecutorPair struct {
	Simulate ExecuteFunc
	Execute  ExecuteFunc
}

// Registry is a per-run lookup table keyed by operation.Kind.
type Registry struct {
	analyzers    map[operation.Kind]AnalyzerHandler
	diffBuilders map[operation.Kind]DiffBuilder
	executors    map[operation.Kind]ExecutorPair
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		analyzers:    make(map[operation.Kind]AnalyzerHandler),
		diffBuilders: make(map[operation.Kind]DiffBuilder),
		executors:    make(map[operation.Kind]ExecutorPair),
	}
}

// RegisterAnalyzer overrides analysis for kind.
func (r *Registry) RegisterAnalyzer(kind operation.Kind, handler AnalyzerHandler) {
	r.analyzers[kind] = handler
}

// RegisterDiffBuilder overrides diff synthesis for kind.
func (r *Registry) RegisterDiffBuilder(kind operation.Kind, builder DiffBuilder) {
	r.diffBuilders[kind] = builder
}

// RegisterExecutor overrides execution for kind.
func (r *Registry) RegisterExecutor(kind operation.Kind, pair ExecutorPair) {
	r.executors[kind] = pair
}

// Analyzer returns the registered analyzer handler for kind, if any.
func (r *Registry) Analyzer(kind operation.Kind) (AnalyzerHandler, bool) {
	h, ok := r.analyzers[kind]
	return h, ok
}

// DiffBuilderFor returns the registered diff builder for kind, if any.
func (r *Registry) DiffBuilderFor(kind operation.Kind) (DiffBuilder, bool) {
	b, ok := r.diffBuilders[kind]
	return b, ok
}

// Executor returns the registered executor pair for kind, if any.
func (r *Registry) Executor(kind operation.Kind) (ExecutorPair, bool) {
	p, ok := r.executors[kind]
	return p, ok
}

// Clone returns a shallow copy of r whose maps are independently mutable,
// safe to hand to a nested run that shouldn't affect the parent registry's
// registrations.
func (r *Registry) Clone() *Registry {
	clone := New()
	for k, v := range r.analyzers {
		clone.analyzers[k] = v
	}
	for k, v := range r.diffBuilders {
		clone.diffBuilders[k] = v
	}
	for k, v := range r.executors {
		clone.executors[k] = v
	}
	return clone
}

// Kinds returns the sorted list of kinds with at least one registered
// handler of any capability.
func (r *Registry) Kinds() []operation.Kind {
	seen := make(map[operation.Kind]bool)
	for k := range r.analyzers {
		seen[k] = true
	}
	for k := range r.diffBuilders {
		seen[k] = true
	}
	for k := range r.executors {
		seen[k] = true
	}

	kinds := make([]operation.Kind, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
