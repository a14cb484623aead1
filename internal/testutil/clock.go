// Package testutil provides shared helpers for tests.
package testutil

import (
	"sync"
	"time"
)

// FixedClock hands out deterministic wall times for tests.
//
// Each call to Now returns the current instant and advances the clock by
// a fixed step, so creation timestamps are strictly increasing and stable
// across runs.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type FixedClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

// NewFixedClock creates a clock starting at start, advancing by step per
// call to Now.
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	return &FixedClock{t: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

// Set moves the clock to a specific instant. The next Now returns it.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}
