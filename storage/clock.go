package storage

import (
	"sync/atomic"
	"time"
)

// Timestamp is a unique, monotonically increasing logical point in time.
type Timestamp uint64

// Clock allocates timestamps for transaction identity and list versioning.
// It stays atomic even though the session itself is single-threaded, so
// stamps remain monotonic regardless of caller discipline.
type Clock struct {
	current atomic.Uint64
}

// NewClock creates a clock seeded from wall time so stamps from
// successive sessions do not collide.
func NewClock() *Clock {
	c := &Clock{}
	c.current.Store(uint64(time.Now().UnixNano()))
	return c
}

// Next allocates a new unique timestamp.
func (c *Clock) Next() Timestamp {
	return Timestamp(c.current.Add(1))
}

// Current returns the latest allocated timestamp without advancing.
func (c *Clock) Current() Timestamp {
	return Timestamp(c.current.Load())
}
