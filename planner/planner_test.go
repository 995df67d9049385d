package planner

import (
	"strings"
	"testing"

	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/registry"
)

func strPtr(s string) *string { return &s }

func entry(id string, deps []string, kind operation.Kind) operation.Entry {
	e := operation.Entry{Metadata: operation.Metadata{ID: id, Dependencies: deps}}
	switch kind {
	case operation.KindFile:
		e.Operation = operation.Operation{Kind: kind, File: &operation.FileOperation{Action: operation.FileActionEnsure, Path: id + ".txt", Content: strPtr("x")}}
	case operation.KindConfig:
		e.Operation = operation.Operation{Kind: kind, Config: &operation.ConfigOperation{Action: operation.ConfigActionSet, Path: "c.json", Pointer: "/a", Value: 1}}
	}
	return e
}

func TestBuildStagesDependencyOrder(t *testing.T) {
	entries := []operation.Entry{
		entry("file-1", nil, operation.KindFile),
		entry("config-1", []string{"file-1"}, operation.KindConfig),
	}

	stages, warnings := buildStages(entries)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(stages))
	}
	if len(stages[0].Operations) != 1 || stages[0].Operations[0].Metadata.ID != "file-1" {
		t.Errorf("stage 1 = %#v, want [file-1]", stages[0])
	}
	if len(stages[1].Operations) != 1 || stages[1].Operations[0].Metadata.ID != "config-1" {
		t.Errorf("stage 2 = %#v, want [config-1]", stages[1])
	}
}

func TestBuildStagesDiamondOrderMatchesDeclaration(t *testing.T) {
	// A and B have no dependencies (stage 1). C depends on B and D depends
	// on A, both becoming eligible in stage 2. Stage 2 must list them in
	// declaration order (C before D), not in the order their respective
	// parents happened to be processed in stage 1 (which would produce
	// D before C if the round-advance walked per-parent dependents lists).
	entries := []operation.Entry{
		entry("a", nil, operation.KindFile),
		entry("b", nil, operation.KindFile),
		entry("c", []string{"b"}, operation.KindFile),
		entry("d", []string{"a"}, operation.KindFile),
	}

	stages, warnings := buildStages(entries)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(stages) != 2 {
		t.Fatalf("expected 2 stages, got %d: %#v", len(stages), stages)
	}

	firstIDs := []string{stages[0].Operations[0].Metadata.ID, stages[0].Operations[1].Metadata.ID}
	if len(stages[0].Operations) != 2 || firstIDs[0] != "a" || firstIDs[1] != "b" {
		t.Errorf("stage 1 = %v, want [a b]", firstIDs)
	}

	if len(stages[1].Operations) != 2 {
		t.Fatalf("stage 2 = %#v, want 2 operations", stages[1])
	}
	secondIDs := []string{stages[1].Operations[0].Metadata.ID, stages[1].Operations[1].Metadata.ID}
	if secondIDs[0] != "c" || secondIDs[1] != "d" {
		t.Errorf("stage 2 = %v, want [c d] (declaration order), not parent-processing order", secondIDs)
	}
}

func TestBuildStagesMissingDependencyWarns(t *testing.T) {
	entries := []operation.Entry{
		entry("op-1", []string{"missing-op"}, operation.KindFile),
	}

	stages, warnings := buildStages(entries)
	if len(stages) != 1 || len(stages[0].Operations) != 1 {
		t.Fatalf("expected single stage with the operation, got %#v", stages)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if got := warnings[0]; got == "" || !strings.Contains(got, "missing-op") {
		t.Errorf("warning %q does not mention missing-op", got)
	}
}

func TestBuildStagesCycleFallsBackToSequential(t *testing.T) {
	entries := []operation.Entry{
		entry("a", []string{"b"}, operation.KindFile),
		entry("b", []string{"a"}, operation.KindFile),
	}

	stages, warnings := buildStages(entries)
	if len(stages) != 2 {
		t.Fatalf("expected each cyclic op in its own stage, got %#v", stages)
	}
	if len(warnings) == 0 {
		t.Error("expected a cycle warning")
	}
}

func TestPlanRiskRollup(t *testing.T) {
	entries := []operation.Entry{
		entry("a", nil, operation.KindFile),
		entry("b", nil, operation.KindFile),
	}
	results := map[string]analysis.Result{
		"a": {Risk: analysis.RiskSafe},
		"b": {Risk: analysis.RiskHigh},
	}

	p := New(fsops.NewMemFS(), registry.New())
	plan := p.Plan(entries, results, "/workspace")

	if plan.Risks.Overall != analysis.RiskHigh {
		t.Errorf("overall risk = %v, want high", plan.Risks.Overall)
	}
}

func TestPlanConfigDiffRootPointerWarns(t *testing.T) {
	entries := []operation.Entry{
		{
			Operation: operation.Operation{Kind: operation.KindConfig, Config: &operation.ConfigOperation{
				Action: operation.ConfigActionSet, Path: "c.json", Pointer: "/", Value: map[string]any{"a": 1},
			}},
			Metadata: operation.Metadata{ID: "config-root"},
		},
	}

	p := New(fsops.NewMemFS(), registry.New())
	plan := p.Plan(entries, map[string]analysis.Result{"config-root": {Risk: analysis.RiskModerate}}, "/workspace")

	if len(plan.Diff.Configs) != 0 {
		t.Errorf("expected no config diff for root pointer, got %#v", plan.Diff.Configs)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", plan.Warnings)
	}
}

func TestPlanConfigDiffRootPointerMergeIsNotANoOp(t *testing.T) {
	entries := []operation.Entry{
		{
			Operation: operation.Operation{Kind: operation.KindConfig, Config: &operation.ConfigOperation{
				Action: operation.ConfigActionMerge, Path: "c.json", Pointer: "/", Value: map[string]any{"a": 1},
			}},
			Metadata: operation.Metadata{ID: "config-root-merge"},
		},
	}

	p := New(fsops.NewMemFS(), registry.New())
	plan := p.Plan(entries, map[string]analysis.Result{"config-root-merge": {Risk: analysis.RiskModerate}}, "/workspace")

	if len(plan.Diff.Configs) != 1 {
		t.Errorf("expected a config diff for a root-pointer merge, got %#v", plan.Diff.Configs)
	}
	if len(plan.Warnings) != 0 {
		t.Errorf("expected no no-op warning for a root-pointer merge, got %v", plan.Warnings)
	}
}

func TestPlanFileDiffStatus(t *testing.T) {
	entries := []operation.Entry{entry("file-1", nil, operation.KindFile)}
	results := map[string]analysis.Result{
		"file-1": {Needed: true, Current: &analysis.CurrentFileState{Exists: false}, Risk: analysis.RiskSafe},
	}

	p := New(fsops.NewMemFS(), registry.New())
	plan := p.Plan(entries, results, "/workspace")

	if len(plan.Diff.Files) != 1 || plan.Diff.Files[0].Status != FileCreated {
		t.Errorf("diff = %#v, want a single created file", plan.Diff.Files)
	}
	if plan.Diff.Summary.Created != 1 {
		t.Errorf("summary = %#v, want created=1", plan.Diff.Summary)
	}
}
