// Package analysis defines the result types the analyzer produces and the
// planner and executor consume: whether an operation is needed, what
// current workspace state looks like, and how risky applying it would be.
//
// These types live apart from package analyzer so that registry (which
// needs the AnalysisResult shape for its handler signatures) and analyzer
// (which needs the Registry to consult custom handlers) do not import each
// other.
package analysis

// RiskLevel orders how disruptive applying an operation could be.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

var riskRank = map[RiskLevel]int{
	RiskSafe:     0,
	RiskModerate: 1,
	RiskHigh:     2,
}

// Max returns the more severe of a and b under safe < moderate < high. An
// unrecognized level ranks below RiskSafe so a valid level always wins.
func Max(a, b RiskLevel) RiskLevel {
	rankA, okA := riskRank[a]
	if !okA {
		rankA = -1
	}
	rankB, okB := riskRank[b]
	if !okB {
		rankB = -1
	}
	if rankB > rankA {
		return b
	}
	return a
}

// ConflictType classifies why an operation's target state doesn't match
// expectations.
type ConflictType string

const (
	ConflictModified     ConflictType = "modified"
	ConflictMissing      ConflictType = "missing"
	ConflictIncompatible ConflictType = "incompatible"
	ConflictPermission   ConflictType = "permission"
	ConflictUnknown      ConflictType = "unknown"
)

// Conflict describes a single discrepancy found while analyzing an
// operation.
type Conflict struct {
	Type       ConflictType `json:"type"`
	Path       string       `json:"path"`
	Expected   string       `json:"expected,omitempty"`
	Actual     string       `json:"actual,omitempty"`
	Suggestion string       `json:"suggestion,omitempty"`
}

// CurrentFileState describes the on-disk state of a file operation's
// target, as observed by the analyzer.
type CurrentFileState struct {
	Exists  bool    `json:"exists"`
	Size    *int64  `json:"size,omitempty"`
	Mode    *uint32 `json:"mode,omitempty"`
	Mtime   string  `json:"mtime,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Result is the analyzer's verdict for a single operation.
type Result struct {
	Needed    bool              `json:"needed"`
	Current   *CurrentFileState `json:"current,omitempty"`
	Conflicts []Conflict        `json:"conflicts,omitempty"`
	Risk      RiskLevel         `json:"risk"`
	Notes     []string          `json:"notes,omitempty"`
}
