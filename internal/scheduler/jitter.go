package scheduler

import (
	"math/rand/v2"
	"time"
)

// UniformDelay draws jitter uniformly from the inclusive range [0, max].
type UniformDelay struct{}

// Delay returns a uniformly distributed duration in [0, max]. Non-positive
// bounds yield zero.
func (UniformDelay) Delay(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max) + 1))
}
