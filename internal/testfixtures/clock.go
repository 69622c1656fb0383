package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source for scheduler and service tests.
// It only moves when told to, so tick cutoffs and advance arithmetic can be
// asserted exactly.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock positioned at start, or at ReferenceTime when
// start is the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now reports the clock's current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc adapts the clock to the `func() time.Time` shape dependencies
// expect. A nil clock falls back to the real time.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set positions the clock at an exact instant.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
