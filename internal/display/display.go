// Package display turns a counter and an instant into the values shown on
// screen: a days/hours/minutes/seconds breakdown and a compact largest-unit
// summary.
package display

import (
	"fmt"
	"time"

	"github.com/dori/daysince/internal/model"
)

// Unit is a display unit, ordered from largest to smallest
type Unit int

const (
	UnitDays Unit = iota
	UnitHours
	UnitMinutes
	UnitSeconds
)

// String returns the plural upper-case name used in labels
func (u Unit) String() string {
	switch u {
	case UnitDays:
		return "DAYS"
	case UnitHours:
		return "HOURS"
	case UnitMinutes:
		return "MINUTES"
	case UnitSeconds:
		return "SECONDS"
	default:
		return "UNKNOWN"
	}
}

// Breakdown is the decomposition of the distance between a counter's
// reference instant and now.
type Breakdown struct {
	// Days is not capped
	Days    int64
	Hours   int64 // 0-23
	Minutes int64 // 0-59
	Seconds int64 // 0-59

	TotalSeconds int64
	TotalMinutes int64
	TotalHours   int64
}

// IsZero reports whether no time separates now from the reference instant
func (b Breakdown) IsZero() bool {
	return b.TotalSeconds == 0
}

// Compute returns the breakdown for c at now. It has no side effects.
// Countups measure now-CreatedAt, countdowns CreatedAt-now; negative
// distances clamp to zero.
func Compute(c model.Counter, now time.Time) Breakdown {
	var deltaMs int64
	if c.IsCountdown() {
		deltaMs = c.CreatedAt - now.UnixMilli()
	} else {
		deltaMs = now.UnixMilli() - c.CreatedAt
	}
	if deltaMs < 0 {
		deltaMs = 0
	}

	seconds := deltaMs / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	return Breakdown{
		Days:         days,
		Hours:        hours % 24,
		Minutes:      minutes % 60,
		Seconds:      seconds % 60,
		TotalSeconds: seconds,
		TotalMinutes: minutes,
		TotalHours:   hours,
	}
}

// Expired reports whether a countdown has reached its target at now.
// Countups never expire.
func Expired(c model.Counter, now time.Time) bool {
	if !c.IsCountdown() {
		return false
	}
	return c.CreatedAt-now.UnixMilli() <= 0
}

// Remaining returns the time left on a countdown, never negative
func Remaining(c model.Counter, now time.Time) time.Duration {
	if !c.IsCountdown() {
		return 0
	}
	d := time.UnixMilli(c.CreatedAt).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// WithinDay reports whether now is less than 24 hours away from the
// counter's reference instant, in either direction.
func WithinDay(c model.Counter, now time.Time) bool {
	d := now.UnixMilli() - c.CreatedAt
	if d < 0 {
		d = -d
	}
	return d < int64(24*time.Hour/time.Millisecond)
}

// Clock renders the breakdown as DD:HH:MM:SS
func Clock(b Breakdown) string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", b.Days, b.Hours, b.Minutes, b.Seconds)
}
