package message

import (
	"testing"
	"time"
)

func TestRender_SubstitutesDate(t *testing.T) {
	now := time.Date(2024, time.May, 17, 0, 0, 0, 0, time.UTC)

	got := Render("it is $(date) - hi!", now)
	want := "it is Friday, May 17, 2024 - hi!"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRender_NoLeadingZeroDay(t *testing.T) {
	now := time.Date(2024, time.March, 3, 12, 30, 0, 0, time.UTC)

	got := Render("$(date)", now)
	want := "Sunday, March 3, 2024"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRender_MultipleOccurrences(t *testing.T) {
	now := time.Date(2024, time.May, 17, 0, 0, 0, 0, time.UTC)

	got := Render("$(date) and again $(date)", now)
	want := "Friday, May 17, 2024 and again Friday, May 17, 2024"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRender_PassThrough(t *testing.T) {
	now := time.Date(2024, time.May, 17, 0, 0, 0, 0, time.UTC)

	for _, template := range []string{"", "no tokens here", "$(time)", "$(Date)"} {
		if got := Render(template, now); got != template {
			t.Errorf("Render(%q) = %q, want unchanged", template, got)
		}
	}
}
