// Package date provides the calendar-day primitives the rest of the engine
// builds on: sentinel bounds, ISO-8601 parsing, and the month/year arithmetic
// helpers that tenor and calendar math are layered over.
//
// Dates are represented as time.Time values normalized to UTC midnight. The
// engine never looks at time-of-day or time zone; Normalize is the single
// place that assumption is enforced.
package date

import (
	"fmt"
	"time"
)

// Min and Max bound open windows. They are ordinary (if extreme) calendar
// dates rather than time.Time zero values, so arithmetic against them (e.g.
// AddMonthsClamped) never overflows or panics.
var (
	Min = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	Max = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
)

const isoLayout = "2006-01-02"

// Normalize strips time-of-day and forces UTC, so every date the engine
// touches compares and hashes consistently regardless of where it came from.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse reads an ISO-8601 "YYYY-MM-DD" literal, as accepted wherever a date
// is expected in the builder API.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date: invalid ISO-8601 literal %q: %w", s, err)
	}
	return t, nil
}

// Format renders t as an ISO-8601 "YYYY-MM-DD" literal.
func Format(t time.Time) string {
	return t.Format(isoLayout)
}

// Weekday returns t's weekday as 0..6 with Monday=0, unlike time.Weekday
// (Sunday=0).
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DaysInMonth returns the number of days in the given proleptic-Gregorian
// month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// FirstOfNextMonth returns the first day of the month after t's.
func FirstOfNextMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 1, 0)
}

// FirstOfYear returns January 1st of t's year.
func FirstOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}

// NextMonday returns t if it is already a Monday, else the first Monday
// strictly after t.
func NextMonday(t time.Time) time.Time {
	if w := Weekday(t); w != 0 {
		return t.AddDate(0, 0, 7-w)
	}
	return t
}

// AddMonthsClamped adds whole months to t, preserving day-of-month unless the
// target month is shorter, in which case the day clamps to that month's last
// day. This is the rule tenor.AddTo applies for its y/m components: Jan 31
// plus 1 month lands on Feb 28 (or 29 in a leap year), never Mar 3.
//
// Adapted from the teacher's Excel-EDATE-style utils.AddMonth, which avoids
// the same Go AddDate month-rollover surprise this guards against.
func AddMonthsClamped(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	anchor := FirstOfMonth(t).AddDate(0, months, 0)
	last := DaysInMonth(anchor.Year(), anchor.Month())
	day := t.Day()
	if day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

// IsSentinelLow reports whether t is the open-lower-bound sentinel.
func IsSentinelLow(t time.Time) bool { return t.Equal(Min) }

// IsSentinelHigh reports whether t is the open-upper-bound sentinel.
func IsSentinelHigh(t time.Time) bool { return t.Equal(Max) }
