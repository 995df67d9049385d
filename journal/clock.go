package journal

import "time"

// Clock supplies the timestamps a Journal stamps onto its entries and the
// executor stamps onto backup filenames. A run's journal and its backups
// share one Clock so a persisted log's timestamps line up with the backup
// names next to it.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock with a fixed time, for reproducing exact
// timestamps and backup filenames in tests.
type FakeClock struct {
	current time.Time
}

// NewFakeClock returns a FakeClock whose Now always reports t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

func (c *FakeClock) Now() time.Time {
	return c.current
}
