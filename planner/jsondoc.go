package planner

import (
	"encoding/json"
	"strings"

	"github.com/kb-labs/setup-engine/internal/fsops"
)

func fsopsResolve(workspaceRoot, relPath string) (string, error) {
	return fsops.ResolveWorkspacePath(workspaceRoot, relPath)
}

// readJSONDoc reads and parses path as a JSON object, returning ok=false if
// the file is absent or fails to parse - diff synthesis degrades to an
// empty "before" rather than failing the whole plan on a read error, since
// analysis has already surfaced any conflict for this path.
func (p *Planner) readJSONDoc(path string) (map[string]any, bool) {
	exists, err := p.fs.Exists(path)
	if err != nil || !exists {
		return nil, false
	}

	raw, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return map[string]any{}, true
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	return doc, true
}
