package scheduler

import (
	"testing"
	"time"
)

func TestUniformDelay_WithinBound(t *testing.T) {
	source := UniformDelay{}
	max := 5 * time.Second

	for i := 0; i < 100; i++ {
		delay := source.Delay(max)
		if delay < 0 || delay > max {
			t.Fatalf("draw %d out of range: %v", i, delay)
		}
	}
}

func TestUniformDelay_NonPositiveBoundYieldsZero(t *testing.T) {
	source := UniformDelay{}

	if delay := source.Delay(0); delay != 0 {
		t.Errorf("Delay(0) = %v, want 0", delay)
	}
	if delay := source.Delay(-time.Second); delay != 0 {
		t.Errorf("Delay(-1s) = %v, want 0", delay)
	}
}
