package core

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatRelative renders a unix-ms timestamp as a relative phrase ("3 minutes ago").
func FormatRelative(ms int64) string {
	return humanize.Time(time.UnixMilli(ms))
}

// FormatClock renders a unix-ms timestamp as a wall-clock label. Timestamps
// from a previous day include the date.
func FormatClock(ms int64, now time.Time) string {
	ts := time.UnixMilli(ms).In(now.Location())
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		return ts.Format("15:04")
	}
	return ts.Format("Jan 2 15:04")
}

// Elapsed returns how much of a window has passed since a unix-ms timestamp.
func Elapsed(ms int64, now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(ms))
}

// WithinWindow reports whether now is still inside window after a unix-ms timestamp.
func WithinWindow(ms int64, window time.Duration, now time.Time) bool {
	return Elapsed(ms, now) <= window
}
