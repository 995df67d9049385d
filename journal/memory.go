package journal

import "time"

// NewMemoryJournal returns a Journal configured for tests: the truncation cap
// is set to one byte, so snapshot content longer than that is replaced by
// the "<truncated N bytes>" placeholder. Snapshots are still taken, with
// their exists flag and full-content checksum; content of one byte or less
// is kept as is. A FakeClock is used when clk is nil so timestamps are
// deterministic.
func NewMemoryJournal(clk Clock) *Journal {
	if clk == nil {
		clk = NewFakeClock(time.Unix(0, 0))
	}
	j := New(clk)
	j.SetTruncateBytes(1)
	return j
}

// Applied returns the metadata ids of every entry that has been closed with
// AfterOperation, in the order they completed.
func (j *Journal) Applied() []string {
	var ids []string
	for _, e := range j.entries {
		if e.After != nil {
			ids = append(ids, e.Operation.Metadata.ID)
		}
	}
	return ids
}
