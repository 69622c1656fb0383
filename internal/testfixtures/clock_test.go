package testfixtures

import (
	"testing"
	"time"
)

func TestClock_ZeroStartUsesReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClock_SetAndAdvance(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
	clock := NewClock(start)

	if updated := clock.Advance(90 * time.Minute); !updated.Equal(start.Add(90 * time.Minute)) {
		t.Fatalf("Advance returned %v", updated)
	}

	target := start.Add(2 * time.Hour)
	clock.Set(target)
	if got := clock.Now(); !got.Equal(target) {
		t.Fatalf("Now = %v, want %v", got, target)
	}
}

func TestClock_NowFuncOnNilClockFallsBackToRealTime(t *testing.T) {
	var clock *Clock
	before := time.Now()
	got := clock.NowFunc()()
	if got.Before(before) {
		t.Fatalf("expected real time, got %v", got)
	}
}
