package testfixtures

import (
	"sync"
	"time"
)

// FixedJitter is a deterministic random-delay source for scheduler tests.
// Delay always returns the configured duration and records the bound it was
// asked for.
type FixedJitter struct {
	mu      sync.Mutex
	delay   time.Duration
	maxSeen []time.Duration
}

// NewFixedJitter returns a jitter source that always yields delay.
func NewFixedJitter(delay time.Duration) *FixedJitter {
	return &FixedJitter{delay: delay}
}

// Delay returns the fixed delay and records max for later inspection.
func (j *FixedJitter) Delay(max time.Duration) time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.maxSeen = append(j.maxSeen, max)
	return j.delay
}

// MaxSeen returns every bound Delay has been called with, in order.
func (j *FixedJitter) MaxSeen() []time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]time.Duration(nil), j.maxSeen...)
}
