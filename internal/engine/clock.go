package engine

import "sync/atomic"

// Clock is the monotonic logical clock that stamps accounts and calls.
//
// Every account creation and every invocation takes a strictly increasing seq
// from this clock, so the ledger orders deterministically regardless of wall
// time.
//
// Clock is safe for concurrent use, though the Engine serializes calls and
// normally is the only caller of Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming after start. The engine uses it with the
// store's last seq when reopening an existing ledger.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
