package manifest

// envelopeSchema describes the on-disk manifest envelope: an apiVersion/kind
// pair (carried but not interpreted by the engine) wrapping a list of
// operation entries, each a discriminated union over the four operation
// kinds selected by "operation.kind".
const envelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["apiVersion", "kind", "operations"],
  "properties": {
    "apiVersion": { "type": "string" },
    "kind": { "type": "string", "const": "SetupManifest" },
    "operations": {
      "type": "array",
      "items": { "$ref": "#/definitions/entry" }
    }
  },
  "definitions": {
    "entry": {
      "type": "object",
      "required": ["operation", "metadata"],
      "properties": {
        "operation": { "$ref": "#/definitions/operation" },
        "metadata": { "$ref": "#/definitions/metadata" }
      }
    },
    "operation": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": { "type": "string", "enum": ["file", "config", "script", "code"] },
        "file": { "type": "object" },
        "config": { "type": "object" },
        "script": { "type": "object" },
        "code": { "type": "object" }
      },
      "allOf": [
        {
          "if": { "properties": { "kind": { "const": "file" } } },
          "then": { "required": ["file"] }
        },
        {
          "if": { "properties": { "kind": { "const": "config" } } },
          "then": { "required": ["config"] }
        },
        {
          "if": { "properties": { "kind": { "const": "script" } } },
          "then": { "required": ["script"] }
        },
        {
          "if": { "properties": { "kind": { "const": "code" } } },
          "then": { "required": ["code"] }
        }
      ]
    },
    "metadata": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "description": { "type": "string" },
        "idempotent": { "type": "boolean" },
        "reversible": { "type": "boolean" },
        "dependencies": { "type": "array", "items": { "type": "string" } },
        "tags": { "type": "array", "items": { "type": "string" } },
        "annotations": { "type": "object" }
      }
    }
  }
}`
