// Package parse converts human-entered schedule and interval expressions
// into absolute timestamps and durations.
package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidScheduleExpression is returned when a schedule expression
	// does not match the accepted grammar.
	ErrInvalidScheduleExpression = errors.New("parse: invalid schedule expression")
	// ErrInvalidIntervalExpression is returned when an interval expression
	// does not match the accepted grammar.
	ErrInvalidIntervalExpression = errors.New("parse: invalid interval expression")
)

var (
	scheduleRe = regexp.MustCompile(`^(today|tom|tomorrow|\d{4}-\d{2}-\d{2}) (\d{2}:\d{2})$`)
	intervalRe = regexp.MustCompile(`^(\d+)([smhd])$`)
)

// Schedule parses expressions of the form "today HH:MM", "tom HH:MM",
// "tomorrow HH:MM", or "YYYY-MM-DD HH:MM" into a timestamp carrying the
// offset of loc at that wall-clock instant. The keywords today and tomorrow
// resolve relative to the current instant in loc. Matching is
// case-insensitive; the separator must be exactly one space.
func Schedule(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	match := scheduleRe.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return time.Time{}, fmt.Errorf("%w: %q must look like \"today 15:04\", \"tomorrow 15:04\", or \"2006-01-02 15:04\"", ErrInvalidScheduleExpression, text)
	}

	day := match[1]
	switch day {
	case "today":
		day = time.Now().In(loc).Format(time.DateOnly)
	case "tom", "tomorrow":
		day = time.Now().In(loc).AddDate(0, 0, 1).Format(time.DateOnly)
	}

	// time.ParseInLocation rejects out-of-range fields such as "25:00" or
	// "2024-02-31", which the regex alone cannot.
	parsed, err := time.ParseInLocation("2006-01-02 15:04", day+" "+match[2], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q has out-of-range fields", ErrInvalidScheduleExpression, text)
	}

	return parsed, nil
}

// Interval parses expressions made of one or more decimal digits followed by
// exactly one unit letter from s, m, h, or d (case-insensitive). Compound
// expressions such as "1d2h" are rejected.
func Interval(text string) (time.Duration, error) {
	match := intervalRe.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return 0, fmt.Errorf("%w: %q must be digits followed by one of s, m, h, d", ErrInvalidIntervalExpression, text)
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidIntervalExpression, text)
	}

	switch match[2] {
	case "s":
		return time.Duration(n) * time.Second, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	default:
		return time.Duration(n) * 24 * time.Hour, nil
	}
}
