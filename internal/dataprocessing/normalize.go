package dataprocessing

import (
	"strings"
	"time"
)

// monthLayouts are the date shapes accepted for the fecha column, tried in
// order. Year-month forms come first because they are what the documented
// input format asks for.
var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006/01/02",
	"2006/01",
	"01/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2006",
	"Jan-06",
	"02-01-2006",
}

// NormalizeMonth parses a date-like string and truncates it to the first day
// of its month in UTC. It returns ok == false when the value cannot be
// parsed; a failed parse means missing data, never an error.
func NormalizeMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range monthLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return TruncateMonth(t), true
	}
	return time.Time{}, false
}

// TruncateMonth returns the first day of t's month at midnight UTC.
// Idempotent: truncating an already-truncated month returns it unchanged.
func TruncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
