package executor

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/kb-labs/setup-engine/internal/content"
	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/operation"
)

var templatePlaceholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// resolveFileContent computes the target bytes for a file operation, in
// order: inline content, the rawContentBase64 annotation, then a rendered
// template. It returns ErrMissingContent when none is available.
func (r *run) resolveFileContent(entry operation.Entry) ([]byte, error) {
	op := entry.Operation.File

	if op.Content != nil {
		return content.Decode(*op.Content, op.EncodingOrDefault())
	}

	if raw, ok := entry.Metadata.Annotations["rawContentBase64"]; ok {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode rawContentBase64 annotation: %w", err)
		}
		return decoded, nil
	}

	if op.Template != nil {
		return r.renderTemplate(op.Template)
	}

	return nil, fmt.Errorf("%w: operation %s", ErrMissingContent, entry.Metadata.ID)
}

func (r *run) renderTemplate(tmpl *operation.Template) ([]byte, error) {
	source := tmpl.Source
	if !filepath.IsAbs(source) {
		resolved, err := fsops.ResolveWorkspacePath(r.workspaceRoot, source)
		if err != nil {
			return nil, err
		}
		source = resolved
	}

	raw, err := r.fs.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %q: %w", tmpl.Source, err)
	}

	rendered := templatePlaceholder.ReplaceAllFunc(raw, func(match []byte) []byte {
		key := templatePlaceholder.FindSubmatch(match)[1]
		if value, ok := tmpl.Variables[string(key)]; ok {
			return []byte(value)
		}
		return match
	})

	return rendered, nil
}
