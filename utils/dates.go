package utils

import "time"

// DateLayout is the calendar-day key format used across daily stats and
// streak grouping.
const DateLayout = "2006-01-02"

// DateString formats a time as its local calendar day.
func DateString(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// TodayString returns today's local calendar day.
func TodayString() string {
	return DateString(time.Now())
}

// StartOfDay truncates a time to local midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the local calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// IsSameDay reports whether two times fall on the same local calendar day.
func IsSameDay(a, b time.Time) bool {
	return DateString(a) == DateString(b)
}
