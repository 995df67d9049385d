package planner

import (
	"fmt"

	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/internal/jsonptr"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/registry"
)

func stringPtr(s string) *string { return &s }

func (p *Planner) buildDiff(entries []operation.Entry, results map[string]analysis.Result, workspaceRoot string) (PlanDiff, []string) {
	diff := PlanDiff{}
	var warnings []string
	ctx := registry.Context{WorkspaceRoot: workspaceRoot}

	for _, entry := range entries {
		result := results[entry.Metadata.ID]

		if builder, ok := p.registry.DiffBuilderFor(entry.Operation.Kind); ok {
			built, err := builder(entry, result, ctx)
			if err != nil || built == nil {
				continue
			}
			switch d := built.(type) {
			case *FileDiff:
				diff.Files = append(diff.Files, *d)
			case FileDiff:
				diff.Files = append(diff.Files, d)
			case *ConfigDiff:
				diff.Configs = append(diff.Configs, *d)
			case ConfigDiff:
				diff.Configs = append(diff.Configs, d)
			}
			continue
		}

		switch entry.Operation.Kind {
		case operation.KindFile:
			diff.Files = append(diff.Files, buildFileDiff(entry.Operation.File, result))
		case operation.KindConfig:
			cfg := entry.Operation.Config
			if jsonptr.IsRoot(cfg.Pointer) && cfg.Action != operation.ConfigActionMerge {
				warnings = append(warnings, fmt.Sprintf("operation %s: root pointer %s is a no-op", entry.Metadata.ID, cfg.Action))
				continue
			}
			diff.Configs = append(diff.Configs, p.buildConfigDiff(cfg, workspaceRoot))
		}
	}

	diff.Summary = summarize(diff)
	return diff, warnings
}

func buildFileDiff(op *operation.FileOperation, result analysis.Result) FileDiff {
	if op.Action == operation.FileActionDelete {
		return FileDiff{Path: op.Path, Status: FileDeleted}
	}

	status := FileModified
	if result.Current == nil || !result.Current.Exists {
		status = FileCreated
	}

	preview := &FilePreview{}
	if result.Current != nil && result.Current.Content != nil {
		preview.Before = result.Current.Content
	}

	switch {
	case op.Content != nil:
		preview.After = op.Content
	case op.Template != nil:
		preview.After = stringPtr(fmt.Sprintf("{{template:%s}}", op.Template.Source))
	}

	return FileDiff{Path: op.Path, Status: status, Preview: preview}
}

// buildConfigDiff re-reads the target JSON document to report the value at
// pointer before this run, since analysis.Result does not carry it (the
// analyzer only needs it transiently to decide Needed).
func (p *Planner) buildConfigDiff(op *operation.ConfigOperation, workspaceRoot string) ConfigDiff {
	diff := ConfigDiff{Path: op.Path, Pointer: op.Pointer}

	path, err := fsopsResolve(workspaceRoot, op.Path)
	if err == nil {
		if doc, ok := p.readJSONDoc(path); ok {
			if before, hasBefore := jsonptr.Get(doc, op.Pointer); hasBefore {
				diff.Before = before
			}
		}
	}

	if op.Action != operation.ConfigActionUnset {
		diff.After = op.Value
	}

	return diff
}

func summarize(diff PlanDiff) DiffSummary {
	var s DiffSummary
	for _, f := range diff.Files {
		switch f.Status {
		case FileCreated:
			s.Created++
		case FileModified:
			s.Modified++
		case FileDeleted:
			s.Deleted++
		}
	}
	for _, c := range diff.Configs {
		switch {
		case c.Before == nil && c.After != nil:
			s.Created++
		case c.After == nil:
			s.Deleted++
		default:
			s.Modified++
		}
	}
	return s
}
