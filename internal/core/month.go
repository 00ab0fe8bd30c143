// Package core defines the domain model of the aggregation engine: accounts,
// categories, transactions and the monthly report shapes built from them.
//
// Months are passed around as "YYYY-MM" strings; this file holds the helpers
// that keep month arithmetic in one place.
package core

import (
	"fmt"
	"time"
)

// MonthLayout is the wire format for calendar months.
const MonthLayout = "2006-01"

// MonthOf returns the calendar month containing t, in UTC.
func MonthOf(t time.Time) string {
	return t.UTC().Format(MonthLayout)
}

// MonthStart returns the first instant of the month.
func MonthStart(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	return t, nil
}

// MonthEnd returns the last instant of the month.
func MonthEnd(month string) (time.Time, error) {
	start, err := MonthStart(month)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 1, 0).Add(-time.Nanosecond), nil
}

// MonthsBetween returns every month from the one containing from through the
// one containing to, ascending and contiguous. Returns nil when from is after
// to.
func MonthsBetween(from, to time.Time) []string {
	from, to = from.UTC(), to.UTC()
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	if cur.After(last) {
		return nil
	}
	var months []string
	for !cur.After(last) {
		months = append(months, cur.Format(MonthLayout))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}
