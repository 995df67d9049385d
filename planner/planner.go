package planner

import (
	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/registry"
)

// Planner turns a list of operations plus their analysis into an
// ExecutionPlan: dependency-ordered stages, a workspace diff, and a
// rolled-up risk assessment.
type Planner struct {
	fs       fsops.FS
	registry *registry.Registry
}

// New returns a Planner that reads current config values for diff synthesis
// through fs and consults reg for per-kind diff-builder overrides.
func New(fs fsops.FS, reg *registry.Registry) *Planner {
	return &Planner{fs: fs, registry: reg}
}

// Plan builds an ExecutionPlan for entries given their pre-computed
// analysis results.
func (p *Planner) Plan(entries []operation.Entry, results map[string]analysis.Result, workspaceRoot string) ExecutionPlan {
	stages, stageWarnings := buildStages(entries)
	diff, diffWarnings := p.buildDiff(entries, results, workspaceRoot)
	risks := rollUpRisk(entries, results)

	warnings := append(stageWarnings, diffWarnings...)

	return ExecutionPlan{
		Stages:   stages,
		Diff:     diff,
		Risks:    risks,
		Warnings: warnings,
	}
}

func rollUpRisk(entries []operation.Entry, results map[string]analysis.Result) RiskAssessment {
	byOp := make(map[string]analysis.RiskLevel, len(entries))
	overall := analysis.RiskSafe

	for _, entry := range entries {
		risk := analysis.RiskModerate
		if result, ok := results[entry.Metadata.ID]; ok && result.Risk != "" {
			risk = result.Risk
		}
		byOp[entry.Metadata.ID] = risk
		overall = analysis.Max(overall, risk)
	}

	return RiskAssessment{Overall: overall, ByOperation: byOp}
}
