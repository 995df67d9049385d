// Package journal records the before/after state of every mutation an
// executor run performs, so that a completed run's log file can be
// replayed to inspect or undo it.
//
// A Journal is append-only for the duration of a run: beforeOperation opens
// an entry, afterOperation closes it, and entries are never edited once
// closed. GetEntries returns deep clones so a caller mutating the result
// cannot corrupt the journal's own history.
package journal

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kb-labs/setup-engine/operation"
)

// DefaultTruncateBytes is the byte cap above which Snapshot content is
// replaced with a placeholder, per spec.
const DefaultTruncateBytes = 256 * 1024

// Snapshot captures the state of an operation's target at one point in
// time.
type Snapshot struct {
	Exists   bool              `json:"exists"`
	Content  string            `json:"content,omitempty"`
	Checksum string            `json:"checksum,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewSnapshot builds a Snapshot for the given bytes, computing the checksum
// over the full content but truncating the stored content above
// truncateBytes.
func NewSnapshot(exists bool, data []byte, truncateBytes int) Snapshot {
	if !exists {
		return Snapshot{Exists: false}
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	if truncateBytes <= 0 {
		truncateBytes = DefaultTruncateBytes
	}

	content := string(data)
	if len(data) > truncateBytes {
		content = truncatedPlaceholder(len(data))
	}

	return Snapshot{Exists: true, Content: content, Checksum: checksum}
}

func truncatedPlaceholder(size int) string {
	return "<truncated " + strconv.Itoa(size) + " bytes>"
}

// Entry records one operation's lifecycle within a run.
type Entry struct {
	Timestamp  time.Time        `json:"timestamp"`
	Operation  operation.Entry  `json:"operation"`
	Before     Snapshot         `json:"before"`
	After      *Snapshot        `json:"after,omitempty"`
	BackupPath string           `json:"backupPath,omitempty"`
}

// Artifacts is a read-only view of the files a run produced.
type Artifacts struct {
	Backups []string `json:"backups"`
	Logs    []string `json:"logs"`
}

// Journal is the append-only record for a single run.
type Journal struct {
	RunID         string
	clock         Clock
	entries       []*Entry
	logPath       string
	backupPaths   []string
	truncateBytes int
}

// New returns a Journal with a freshly generated run id.
func New(clk Clock) *Journal {
	return NewWithRunID(uuid.NewString(), clk)
}

// NewWithRunID returns a Journal stamped with the given run id, for callers
// that manage their own identifiers.
func NewWithRunID(runID string, clk Clock) *Journal {
	return &Journal{RunID: runID, clock: clk, truncateBytes: DefaultTruncateBytes}
}

// SetTruncateBytes overrides the snapshot content truncation cap.
func (j *Journal) SetTruncateBytes(n int) {
	j.truncateBytes = n
}

// BeforeOperation opens a new entry for entry, recording its pre-mutation
// snapshot.
func (j *Journal) BeforeOperation(entry operation.Entry, exists bool, data []byte) *Entry {
	e := &Entry{
		Timestamp: j.clock.Now(),
		Operation: entry.Clone(),
		Before:    NewSnapshot(exists, data, j.truncateBytes),
	}
	j.entries = append(j.entries, e)
	return e
}

// AfterOperation closes e, the entry returned by BeforeOperation, with its
// post-mutation snapshot and optional backup path.
func (j *Journal) AfterOperation(e *Entry, exists bool, data []byte, backupPath string) {
	snap := NewSnapshot(exists, data, j.truncateBytes)
	e.After = &snap
	e.BackupPath = backupPath
	if backupPath != "" {
		j.backupPaths = append(j.backupPaths, backupPath)
	}
}

// GetEntries returns a deep copy of every entry recorded so far.
func (j *Journal) GetEntries() []Entry {
	clones := make([]Entry, len(j.entries))
	for i, e := range j.entries {
		clones[i] = Entry{
			Timestamp:  e.Timestamp,
			Operation:  e.Operation.Clone(),
			Before:     e.Before,
			BackupPath: e.BackupPath,
		}
		if e.After != nil {
			after := *e.After
			clones[i].After = &after
		}
	}
	return clones
}

// GetArtifacts returns the backup and log paths this run has produced.
func (j *Journal) GetArtifacts() Artifacts {
	logs := []string(nil)
	if j.logPath != "" {
		logs = []string{j.logPath}
	}
	backups := append([]string(nil), j.backupPaths...)
	return Artifacts{Backups: backups, Logs: logs}
}

// GetLogPath returns the path the journal was persisted to, or "" if it
// hasn't been persisted yet.
func (j *Journal) GetLogPath() string {
	return j.logPath
}

// SetLogPath records where the journal was persisted.
func (j *Journal) SetLogPath(path string) {
	j.logPath = path
}
