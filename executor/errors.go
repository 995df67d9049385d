package executor

import "errors"

// Sentinel errors for the operation failure kinds the executor can raise,
// so callers can errors.Is against a specific failure mode instead of
// pattern-matching a message.
var (
	ErrPathEscape      = errors.New("path escapes workspace root")
	ErrUnsupportedKind = errors.New("unsupported operation kind")
	ErrMissingContent  = errors.New("file operation has no inline, annotation, or template content")
	ErrScriptConflict  = errors.New("existing script entry conflicts with declared value")
	ErrInvalidJSON     = errors.New("invalid JSON")
)
