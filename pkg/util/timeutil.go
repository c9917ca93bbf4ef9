package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DayStart truncates a timestamp to midnight UTC.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole UTC days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DayStart(b).Sub(DayStart(a)) / (24 * time.Hour))
}
