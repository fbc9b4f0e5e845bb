// Package dates normalizes and compares the calendar dates carried by
// journal trades.
package dates

import (
	"fmt"
	"time"
)

// ISODate is the layout of a bare calendar date.
const ISODate = "2006-01-02"

var layouts = []string{
	ISODate,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
}

// Parse reads a yyyy-mm-dd date or an ISO-8601 date-time. Bare dates and
// date-times without an offset are taken as UTC.
func Parse(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ToISODate renders t as its UTC calendar date.
func ToISODate(t time.Time) string {
	return t.UTC().Format(ISODate)
}

// AddDays returns t shifted by n calendar days in t's own location.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfDay returns 00:00:00.000 of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// InRange reports whether dateStr falls on or between the calendar days
// of start and end. Only the day component of start and end matters.
// Unparseable dates are never in range.
func InRange(dateStr string, start, end time.Time) bool {
	t, err := Parse(dateStr)
	if err != nil {
		return false
	}
	return !t.Before(StartOfDay(start)) && !t.After(EndOfDay(end))
}
