package analyzer

import "errors"

// ErrInvalidJSON wraps the parse error readJSONObject reports when a config
// or script manifest's on-disk content fails to parse as JSON. AnalyzeAll
// does not return it: the analyzer records such a file as an incompatible
// "invalid-json" conflict on the operation's result instead.
var ErrInvalidJSON = errors.New("invalid JSON")
