package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/internal/jsoneq"
	"github.com/kb-labs/setup-engine/internal/jsonptr"
	"github.com/kb-labs/setup-engine/operation"
	"github.com/kb-labs/setup-engine/registry"
)

// applyFile applies a file operation and reports whether it changed the
// workspace and, if it backed up an existing file, where.
func (r *run) applyFile(entry operation.Entry) (registry.ExecuteOutcome, error) {
	op := entry.Operation.File

	target, err := fsops.ResolveWorkspacePath(r.workspaceRoot, op.Path)
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("%w: %v", ErrPathEscape, err)
	}

	if op.Action == operation.FileActionDelete {
		exists, err := r.fs.Exists(target)
		if err != nil {
			return registry.ExecuteOutcome{}, err
		}
		if !exists {
			return registry.ExecuteOutcome{Changed: false}, nil
		}

		backupPath, err := r.backupIfExists(target, entry.Metadata.ID, op.Path)
		if err != nil {
			return registry.ExecuteOutcome{}, err
		}
		r.recordMutation(target, backupPath, true)

		if err := r.fs.Remove(target); err != nil {
			return registry.ExecuteOutcome{}, fmt.Errorf("failed to remove %s: %w", op.Path, err)
		}
		return registry.ExecuteOutcome{Changed: true, BackupPath: backupPath}, nil
	}

	nextBytes, err := r.resolveFileContent(entry)
	if err != nil {
		return registry.ExecuteOutcome{}, err
	}

	existed, err := r.fs.Exists(target)
	if err != nil {
		return registry.ExecuteOutcome{}, err
	}

	if existed {
		currentBytes, err := r.fs.ReadFile(target)
		if err != nil {
			return registry.ExecuteOutcome{}, err
		}
		if bytes.Equal(currentBytes, nextBytes) {
			return registry.ExecuteOutcome{Changed: false}, nil
		}
	}

	backupPath, err := r.backupIfExists(target, entry.Metadata.ID, op.Path)
	if err != nil {
		return registry.ExecuteOutcome{}, err
	}
	r.recordMutation(target, backupPath, existed)

	perm := os.FileMode(0o644)
	if op.Mode != nil {
		perm = os.FileMode(*op.Mode & 0o777)
	}
	if err := r.fs.AtomicWrite(target, nextBytes, perm); err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("failed to write %s: %w", op.Path, err)
	}
	if op.Mode != nil {
		if err := r.fs.Chmod(target, os.FileMode(*op.Mode&0o777)); err != nil {
			return registry.ExecuteOutcome{}, fmt.Errorf("failed to set mode on %s: %w", op.Path, err)
		}
	}

	return registry.ExecuteOutcome{Changed: true, BackupPath: backupPath}, nil
}

// applyConfig applies a config operation via RFC-6901 pointer navigation.
func (r *run) applyConfig(entry operation.Entry) (registry.ExecuteOutcome, error) {
	op := entry.Operation.Config

	target, err := fsops.ResolveWorkspacePath(r.workspaceRoot, op.Path)
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("%w: %v", ErrPathEscape, err)
	}

	existed, doc, err := readJSONObjectOrEmpty(r.fs, target)
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, op.Path, err)
	}

	if jsonptr.IsRoot(op.Pointer) && op.Action != operation.ConfigActionMerge {
		return registry.ExecuteOutcome{Changed: false}, nil
	}

	before, err := json.Marshal(doc)
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("failed to marshal %s: %w", op.Path, err)
	}

	switch op.Action {
	case operation.ConfigActionUnset:
		jsonptr.Unset(doc, op.Pointer)
	case operation.ConfigActionSet:
		jsonptr.Set(doc, op.Pointer, op.Value)
	case operation.ConfigActionMerge:
		r.applyConfigMerge(doc, op)
	default:
		return registry.ExecuteOutcome{}, fmt.Errorf("%w: config action %q", ErrUnsupportedKind, op.Action)
	}

	after, err := json.Marshal(doc)
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("failed to marshal %s: %w", op.Path, err)
	}
	if bytes.Equal(before, after) {
		return registry.ExecuteOutcome{Changed: false}, nil
	}

	backupPath, err := r.backupIfExists(target, entry.Metadata.ID, op.Path)
	if err != nil {
		return registry.ExecuteOutcome{}, err
	}
	r.recordMutation(target, backupPath, existed)

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("failed to marshal %s: %w", op.Path, err)
	}
	if err := r.fs.AtomicWrite(target, append(pretty, '\n'), 0o644); err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("failed to write %s: %w", op.Path, err)
	}

	return registry.ExecuteOutcome{Changed: true, BackupPath: backupPath}, nil
}

func (r *run) applyConfigMerge(doc map[string]any, op *operation.ConfigOperation) {
	if jsonptr.IsRoot(op.Pointer) {
		r.applyRootMerge(doc, op)
		return
	}

	current, hasCurrent := jsonptr.Get(doc, op.Pointer)
	currentObj, currentIsObj := current.(map[string]any)
	incomingObj, incomingIsObj := op.Value.(map[string]any)

	if !hasCurrent || !currentIsObj || !incomingIsObj {
		jsonptr.Set(doc, op.Pointer, op.Value)
		return
	}

	var merged map[string]any
	if op.StrategyOrDefault() == operation.MergeShallow {
		merged = jsoneq.ShallowMerge(currentObj, incomingObj)
	} else if op.StrategyOrDefault() == operation.MergeReplace {
		jsonptr.Set(doc, op.Pointer, op.Value)
		return
	} else {
		merged = jsoneq.DeepMerge(currentObj, incomingObj)
	}
	jsonptr.Set(doc, op.Pointer, merged)
}

// applyRootMerge merges op.Value into doc itself. jsonptr.Set is a no-op at
// the root pointer since a map cannot be reassigned through a value
// parameter, so root merges mutate doc's keys directly instead.
func (r *run) applyRootMerge(doc map[string]any, op *operation.ConfigOperation) {
	incomingObj, incomingIsObj := op.Value.(map[string]any)
	if !incomingIsObj {
		return
	}

	if op.StrategyOrDefault() == operation.MergeReplace {
		for key := range doc {
			delete(doc, key)
		}
		jsoneq.ShallowMerge(doc, incomingObj)
		return
	}
	if op.StrategyOrDefault() == operation.MergeShallow {
		jsoneq.ShallowMerge(doc, incomingObj)
		return
	}
	jsoneq.DeepMerge(doc, incomingObj)
}

// applyScript applies a script operation to a JSON scripts manifest.
func (r *run) applyScript(entry operation.Entry) (registry.ExecuteOutcome, error) {
	op := entry.Operation.Script

	target, err := fsops.ResolveWorkspacePath(r.workspaceRoot, op.File)
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("%w: %v", ErrPathEscape, err)
	}

	existed, doc, err := readJSONObjectOrEmpty(r.fs, target)
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, op.File, err)
	}

	scripts, ok := doc["scripts"].(map[string]any)
	if !ok {
		scripts = map[string]any{}
	}

	current, hasEntry := scripts[op.Name]

	if op.Action == operation.FileActionDelete {
		if !hasEntry {
			return registry.ExecuteOutcome{Changed: false}, nil
		}
		delete(scripts, op.Name)
	} else {
		if hasEntry && current != op.Command {
			switch op.ConflictResolutionOrDefault() {
			case operation.ScriptKeep:
				return registry.ExecuteOutcome{Changed: false}, nil
			case operation.ScriptReplace:
				scripts[op.Name] = op.Command
			case operation.ScriptPrompt:
				if !r.autoConfirm {
					return registry.ExecuteOutcome{}, fmt.Errorf("%w: script %q in %s already has a different value", ErrScriptConflict, op.Name, op.File)
				}
				scripts[op.Name] = op.Command
			}
		} else if !hasEntry {
			scripts[op.Name] = op.Command
		} else {
			return registry.ExecuteOutcome{Changed: false}, nil
		}
	}

	doc["scripts"] = scripts

	backupPath, err := r.backupIfExists(target, entry.Metadata.ID, op.File)
	if err != nil {
		return registry.ExecuteOutcome{}, err
	}
	r.recordMutation(target, backupPath, existed)

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("failed to marshal %s: %w", op.File, err)
	}
	if err := r.fs.AtomicWrite(target, append(pretty, '\n'), 0o644); err != nil {
		return registry.ExecuteOutcome{}, fmt.Errorf("failed to write %s: %w", op.File, err)
	}

	return registry.ExecuteOutcome{Changed: true, BackupPath: backupPath}, nil
}

func (r *run) recordMutation(targetPath, backupPath string, existedBefore bool) {
	r.mutations = append(r.mutations, mutation{targetPath: targetPath, backupPath: backupPath, existedBefore: existedBefore})
}

func readJSONObjectOrEmpty(fs fsops.FS, path string) (existed bool, doc map[string]any, err error) {
	exists, err := fs.Exists(path)
	if err != nil {
		return false, nil, err
	}
	if !exists {
		return false, map[string]any{}, nil
	}

	raw, err := fs.ReadFile(path)
	if err != nil {
		return true, nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return true, map[string]any{}, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return true, nil, err
	}
	return true, decoded, nil
}
