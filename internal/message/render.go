// Package message renders outgoing prompt text from stored templates.
package message

import (
	"fmt"
	"strings"
	"time"
)

const dateToken = "$(date)"

// Render replaces every occurrence of the $(date) token in template with
// localNow formatted as "Friday, May 17, 2024". No other substitution tokens
// exist; all remaining text passes through unchanged.
func Render(template string, localNow time.Time) string {
	if !strings.Contains(template, dateToken) {
		return template
	}

	// time.Format has no padding-free day directive that also spells out the
	// weekday and month, so the date is assembled piecewise.
	date := fmt.Sprintf("%s, %s %d, %d",
		localNow.Weekday(), localNow.Month(), localNow.Day(), localNow.Year())

	return strings.ReplaceAll(template, dateToken, date)
}
