package parse

import (
	"errors"
	"testing"
	"time"
)

func losAngeles(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	return loc
}

func TestSchedule_Today(t *testing.T) {
	loc := losAngeles(t)

	now := time.Now().In(loc)
	result, err := Schedule("today 15:05", loc)
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	y, m, d := result.Date()
	wy, wm, wd := now.Date()
	if y != wy || m != wm || d != wd {
		t.Errorf("expected today's date %04d-%02d-%02d, got %04d-%02d-%02d", wy, wm, wd, y, m, d)
	}
	if result.Hour() != 15 || result.Minute() != 5 {
		t.Errorf("expected 15:05, got %02d:%02d", result.Hour(), result.Minute())
	}
	if result.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, result.Location())
	}
}

func TestSchedule_Tomorrow(t *testing.T) {
	loc := losAngeles(t)
	tom := time.Now().In(loc).AddDate(0, 0, 1)

	for _, input := range []string{"tomorrow 15:05", "tom 15:05", "TOMORROW 15:05"} {
		result, err := Schedule(input, loc)
		if err != nil {
			t.Fatalf("Schedule(%q) returned error: %v", input, err)
		}

		y, m, d := result.Date()
		wy, wm, wd := tom.Date()
		if y != wy || m != wm || d != wd {
			t.Errorf("Schedule(%q): expected tomorrow's date %04d-%02d-%02d, got %04d-%02d-%02d", input, wy, wm, wd, y, m, d)
		}
		if result.Hour() != 15 || result.Minute() != 5 {
			t.Errorf("Schedule(%q): expected 15:05, got %02d:%02d", input, result.Hour(), result.Minute())
		}
	}
}

func TestSchedule_AbsoluteDate(t *testing.T) {
	loc := losAngeles(t)

	result, err := Schedule("2005-11-22 09:00", loc)
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}

	want := time.Date(2005, time.November, 22, 9, 0, 0, 0, loc)
	if !result.Equal(want) {
		t.Errorf("expected %v, got %v", want, result)
	}
}

func TestSchedule_Invalid(t *testing.T) {
	loc := losAngeles(t)

	inputs := []string{
		"",
		"today",
		"15:05",
		"today  15:05",
		" today 15:05",
		"today 15:05 ",
		"yesterday 15:05",
		"today 15:5",
		"today 25:00",
		"today 12:60",
		"2024-13-01 09:00",
		"2024-02-31 09:00",
		"2024-1-01 09:00",
		"today 15:05 extra",
	}

	for _, input := range inputs {
		if _, err := Schedule(input, loc); !errors.Is(err, ErrInvalidScheduleExpression) {
			t.Errorf("Schedule(%q): expected ErrInvalidScheduleExpression, got %v", input, err)
		}
	}
}

func TestInterval_Valid(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"15s", 15 * time.Second},
		{"15m", 15 * time.Minute},
		{"15h", 15 * time.Hour},
		{"15d", 15 * 24 * time.Hour},
		{"1s", time.Second},
		{"90M", 90 * time.Minute},
		{"007h", 7 * time.Hour},
	}

	for _, tc := range cases {
		got, err := Interval(tc.input)
		if err != nil {
			t.Errorf("Interval(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Interval(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestInterval_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"15",
		"d",
		"1d2h",
		"15 d",
		"1.5h",
		"-1h",
		"15w",
		"h15",
	}

	for _, input := range inputs {
		if _, err := Interval(input); !errors.Is(err, ErrInvalidIntervalExpression) {
			t.Errorf("Interval(%q): expected ErrInvalidIntervalExpression, got %v", input, err)
		}
	}
}
