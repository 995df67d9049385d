// Package analyzer inspects the current workspace state for a list of
// operations and classifies each as needed or already satisfied, producing
// the risk and conflict data the planner and CLI render.
//
// Analysis is strictly sequential and reads disk state once per operation;
// there is no caching across runs, so a caller who wants a fresh view
// re-invokes AnalyzeAll.
package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kb-labs/setup-engine/analysis"
	"github.com/kb-labs/setup-engine/internal/content"
	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/internal/hash"
	"github.com/kb-labs/setup-engine/internal/jsoneq"
	"github.com/kb-labs/setup-engine/internal/jsonptr"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/registry"
)

// noAnalyzerNote is returned for a code operation, or any kind with no
// built-in or registered analyzer.
const noAnalyzerNote = "code operations require a registered analyzer; none found"

// Analyzer inspects workspace state on behalf of a registry-aware run.
type Analyzer struct {
	fs       fsops.FS
	registry *registry.Registry
}

// New returns an Analyzer that reads the workspace through fs and consults
// reg for per-kind overrides before falling back to built-in handling.
func New(fs fsops.FS, reg *registry.Registry) *Analyzer {
	return &Analyzer{fs: fs, registry: reg}
}

// AnalyzeAll analyzes every entry against workspaceRoot and returns a
// mapping from operation id to its analysis.Result.
func (a *Analyzer) AnalyzeAll(entries []operation.Entry, workspaceRoot string) (map[string]analysis.Result, error) {
	results := make(map[string]analysis.Result, len(entries))
	ctx := registry.Context{WorkspaceRoot: workspaceRoot}

	for _, entry := range entries {
		if handler, ok := a.registry.Analyzer(entry.Operation.Kind); ok {
			result, err := handler(entry, ctx)
			if err != nil {
				return nil, fmt.Errorf("operation %s: %w", entry.Metadata.ID, err)
			}
			results[entry.Metadata.ID] = result
			continue
		}

		result, err := a.analyzeBuiltin(entry, workspaceRoot)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", entry.Metadata.ID, err)
		}
		results[entry.Metadata.ID] = result
	}

	return results, nil
}

func (a *Analyzer) analyzeBuiltin(entry operation.Entry, workspaceRoot string) (analysis.Result, error) {
	switch entry.Operation.Kind {
	case operation.KindFile:
		return a.analyzeFile(entry.Operation.File, workspaceRoot)
	case operation.KindConfig:
		return a.analyzeConfig(entry.Operation.Config, workspaceRoot)
	case operation.KindScript:
		return a.analyzeScript(entry.Operation.Script, workspaceRoot)
	default:
		return analysis.Result{
			Needed: true,
			Risk:   analysis.RiskModerate,
			Notes:  []string{noAnalyzerNote},
		}, nil
	}
}

func (a *Analyzer) analyzeFile(op *operation.FileOperation, workspaceRoot string) (analysis.Result, error) {
	path, err := fsops.ResolveWorkspacePath(workspaceRoot, op.Path)
	if err != nil {
		return analysis.Result{}, err
	}

	info, statErr := a.fs.Stat(path)
	missing := statErr != nil

	if missing {
		if op.Action == operation.FileActionDelete {
			return analysis.Result{Needed: false, Risk: analysis.RiskSafe, Notes: []string{"already removed"}}, nil
		}
		return analysis.Result{
			Needed:  true,
			Current: &analysis.CurrentFileState{Exists: false},
			Risk:    analysis.RiskSafe,
		}, nil
	}

	diskBytes, err := a.fs.ReadFile(path)
	if err != nil {
		return analysis.Result{
			Needed: true,
			Risk:   analysis.RiskModerate,
			Conflicts: []analysis.Conflict{
				{Type: analysis.ConflictUnknown, Path: op.Path, Actual: err.Error()},
			},
		}, nil
	}

	size := info.Size()
	mode := uint32(info.Mode().Perm())
	currentContent := content.Encode(diskBytes, op.EncodingOrDefault())
	current := &analysis.CurrentFileState{
		Exists:  true,
		Size:    &size,
		Mode:    &mode,
		Mtime:   info.ModTime().UTC().Format(time.RFC3339),
		Content: &currentContent,
	}

	if op.Action == operation.FileActionDelete {
		return analysis.Result{Needed: true, Current: current, Risk: analysis.RiskModerate}, nil
	}

	var notes []string
	if op.Content != nil {
		if currentContent == *op.Content && modeMatches(op.Mode, mode) {
			return analysis.Result{Needed: false, Current: current, Risk: analysis.RiskSafe}, nil
		}
		targetBytes, decodeErr := content.Decode(*op.Content, op.EncodingOrDefault())
		if decodeErr == nil {
			notes = append(notes, fmt.Sprintf("current file is %s, target is %s",
				humanize.Bytes(uint64(len(diskBytes))), humanize.Bytes(uint64(len(targetBytes)))))
		}
	} else if op.Checksum != "" {
		if hash.Sum(diskBytes) == strings.ToLower(op.Checksum) {
			return analysis.Result{Needed: false, Current: current, Risk: analysis.RiskSafe}, nil
		}
	} else if op.Template != nil {
		notes = append(notes, "content comes from a template and cannot be fully analysed without rendering")
	}

	return analysis.Result{Needed: true, Current: current, Risk: analysis.RiskModerate, Notes: notes}, nil
}

func modeMatches(declared *uint32, actual uint32) bool {
	if declared == nil {
		return true
	}
	return (*declared & 0o777) == (actual & 0o777)
}

func (a *Analyzer) analyzeConfig(op *operation.ConfigOperation, workspaceRoot string) (analysis.Result, error) {
	path, err := fsops.ResolveWorkspacePath(workspaceRoot, op.Path)
	if err != nil {
		return analysis.Result{}, err
	}

	doc, exists, parseErr := readJSONObject(a.fs, path)
	if parseErr != nil {
		return analysis.Result{
			Needed: true,
			Risk:   analysis.RiskModerate,
			Conflicts: []analysis.Conflict{
				{Type: analysis.ConflictIncompatible, Path: op.Path, Actual: "invalid-json"},
			},
		}, nil
	}

	if !exists && op.Action == operation.ConfigActionUnset {
		return analysis.Result{Needed: false, Risk: analysis.RiskSafe}, nil
	}

	current, hasValue := jsonptr.Get(doc, op.Pointer)

	switch op.Action {
	case operation.ConfigActionUnset:
		return analysis.Result{Needed: hasValue, Risk: analysis.RiskModerate}, nil
	case operation.ConfigActionSet:
		needed := !hasValue || !jsoneq.Equal(current, op.Value)
		return analysis.Result{Needed: needed, Risk: analysis.RiskModerate}, nil
	case operation.ConfigActionMerge:
		if _, isObject := op.Value.(map[string]any); isObject {
			needed := !hasValue || !jsoneq.IsSubset(op.Value, current)
			return analysis.Result{Needed: needed, Risk: analysis.RiskModerate}, nil
		}
		needed := !hasValue || !jsoneq.Equal(current, op.Value)
		return analysis.Result{Needed: needed, Risk: analysis.RiskModerate}, nil
	default:
		return analysis.Result{Needed: true, Risk: analysis.RiskModerate}, nil
	}
}

func (a *Analyzer) analyzeScript(op *operation.ScriptOperation, workspaceRoot string) (analysis.Result, error) {
	path, err := fsops.ResolveWorkspacePath(workspaceRoot, op.File)
	if err != nil {
		return analysis.Result{}, err
	}

	doc, exists, parseErr := readJSONObject(a.fs, path)
	if parseErr != nil {
		return analysis.Result{
			Needed: true,
			Risk:   analysis.RiskModerate,
			Conflicts: []analysis.Conflict{
				{Type: analysis.ConflictIncompatible, Path: op.File, Actual: "invalid-json"},
			},
		}, nil
	}

	if !exists {
		return analysis.Result{
			Needed: true,
			Risk:   analysis.RiskModerate,
			Conflicts: []analysis.Conflict{
				{Type: analysis.ConflictMissing, Path: op.File, Suggestion: "create the manifest before editing its scripts"},
			},
		}, nil
	}

	scripts, _ := doc["scripts"].(map[string]any)
	current, hasEntry := scripts[op.Name]

	if op.Action == operation.FileActionDelete {
		return analysis.Result{Needed: hasEntry, Risk: analysis.RiskModerate}, nil
	}

	needed := !hasEntry || current != op.Command
	return analysis.Result{Needed: needed, Risk: analysis.RiskModerate}, nil
}

// readJSONObject reads and parses path as a JSON object. A missing file
// reports exists=false with no error; blank or whitespace-only content
// parses as an empty object.
func readJSONObject(fs fsops.FS, path string) (doc map[string]any, exists bool, err error) {
	exists, statErr := fs.Exists(path)
	if statErr != nil {
		return nil, false, statErr
	}
	if !exists {
		return map[string]any{}, false, nil
	}

	raw, err := fs.ReadFile(path)
	if err != nil {
		return nil, true, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return map[string]any{}, true, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return decoded, true, nil
}
