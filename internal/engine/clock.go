package engine

import "sync/atomic"

// Clock is a monotonic logical clock for transcript ordering.
//
// Every journaled console event is stamped with a strictly increasing seq
// from this clock, so a transcript reads back in the order it happened
// regardless of wall-clock resolution.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// The runner is single-threaded, so only one goroutine normally calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
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
