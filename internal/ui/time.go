package ui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DueDateLayout is the input and display format for due dates.
const DueDateLayout = "2006-01-02"

// ParseDueDate parses a YYYY-MM-DD due date in the local time zone.
func ParseDueDate(value string) (time.Time, error) {
	return time.ParseInLocation(DueDateLayout, strings.TrimSpace(value), time.Local)
}

// FormatTimeAgo returns a compact age string like "2m ago".
func FormatTimeAgo(then time.Time, now time.Time) string {
	if then.IsZero() || now.Before(then) {
		return "-"
	}
	return FormatDurationShort(now.Sub(then)) + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// FormatDate renders a date for table output.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DueDateLayout)
}

// FormatDueDate renders a due date relative to now: "today", "tomorrow",
// "in 3d", or "2d overdue". Dates far out fall back to the plain date.
func FormatDueDate(due time.Time, now time.Time) string {
	if due.IsZero() {
		return "-"
	}

	startOfDay := func(t time.Time) time.Time {
		year, month, day := t.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	}
	days := int(math.Round(startOfDay(due.In(now.Location())).Sub(startOfDay(now)).Hours() / 24))

	switch {
	case days < 0:
		return fmt.Sprintf("%dd overdue", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days <= 14:
		return fmt.Sprintf("in %dd", days)
	default:
		return FormatDate(due)
	}
}
