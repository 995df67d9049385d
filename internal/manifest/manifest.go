// Package manifest loads an operations manifest from disk, the on-disk unit
// a CLI or test harness hands to the engine. The engine itself never reads
// from disk to obtain its input; only this loader does.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/kb-labs/setup-engine/operation"
)

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	schema, err := jsonschema.CompileString("setup-manifest.schema.json", envelopeSchema)
	if err != nil {
		panic(fmt.Sprintf("manifest: invalid embedded schema: %v", err))
	}
	return schema
}

// envelope mirrors the on-disk manifest shape. apiVersion/kind are carried
// for forward compatibility and are not otherwise interpreted.
type envelope struct {
	APIVersion string           `json:"apiVersion" yaml:"apiVersion"`
	Kind       string           `json:"kind" yaml:"kind"`
	Operations []operation.Entry `json:"operations" yaml:"operations"`
}

// Load reads a JSON or YAML manifest from path (selected by extension),
// schema-validates it against the operations envelope, and decodes it into
// the entries the engine consumes.
func Load(path string) ([]operation.Entry, error) {
	switch ext(path) {
	case "json", "yaml", "yml":
	default:
		return nil, fmt.Errorf("unsupported manifest extension %q, want .json, .yaml, or .yml", filepath.Ext(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	// Every supported extension is parsed as YAML first: YAML is a superset
	// of JSON, so this also covers plain-JSON manifests without a branch.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	// jsonschema validates against the value shapes encoding/json produces
	// (float64 numbers, map[string]interface{} objects); round-trip through
	// JSON to convert yaml.v3's int and other scalar types. A mapping with
	// non-string keys cannot be marshaled and is reported as an error here.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize manifest %s: %w", path, err)
	}

	var validationDoc any
	if err := json.Unmarshal(jsonData, &validationDoc); err != nil {
		return nil, fmt.Errorf("failed to normalize manifest %s: %w", path, err)
	}
	if err := compiledSchema.Validate(validationDoc); err != nil {
		return nil, fmt.Errorf("manifest %s failed schema validation: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(jsonData, &env); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}

	return env.Operations, nil
}

// ext reports the lowercase extension of path, without the leading dot.
func ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
