// Package store owns all reads and writes against the SQLite database.
// One store type per aggregate; all share the same *sql.DB handle.
package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a room or task id does not exist. Handlers
// translate it into a user-visible 404.
var ErrNotFound = errors.New("not found")

// Timestamps persist as Unix milliseconds to keep the schema compatible
// with database files written by earlier releases.

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func fromNullMillis(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := fromMillis(ms.Int64)
	return &t
}

// dayBounds returns the first and last instant of t's calendar day in t's
// location.
func dayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameCalendarDay reports whether a and b fall on the same calendar day,
// compared in b's location.
func sameCalendarDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return startOfDay(a).Equal(startOfDay(b))
}

// previousCalendarDay reports whether a falls on the calendar day directly
// before b's, compared in b's location.
func previousCalendarDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return startOfDay(a).Equal(startOfDay(b).AddDate(0, 0, -1))
}
