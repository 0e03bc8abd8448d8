// Package when parses the loose date phrases accepted for a counter's
// start or target moment.
package when

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognized is returned for input no layout or phrase matches
var ErrUnrecognized = errors.New("unrecognized date")

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// Layouts carrying a date and optionally a time of day
var layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan 2",
}

var relative = regexp.MustCompile(`^(in\s+)?(\d+)\s*(m|min|mins|minutes?|h|hrs?|hours?|d|days?|w|weeks?)(\s+ago)?$`)

// Parse resolves s relative to now. Date-only phrases resolve to the start
// of that day in now's location.
//
// Accepted: now, today, tomorrow, yesterday, weekday names (next
// occurrence), "last <weekday>", "in 3d", "2h ago", HH:MM (today), and the
// layouts above.
func Parse(s string, now time.Time) (time.Time, error) {
	in := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if in == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnrecognized)
	}
	today := startOfDay(now)

	switch in {
	case "now":
		return now, nil
	case "today":
		return today, nil
	case "tomorrow", "tom":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "nextweek", "next week":
		return today.AddDate(0, 0, 7), nil
	}

	if day, ok := weekdays[in]; ok {
		return nextWeekday(today, day), nil
	}
	if rest, ok := strings.CutPrefix(in, "last "); ok {
		if day, ok := weekdays[rest]; ok {
			return lastWeekday(today, day), nil
		}
	}

	if m := relative.FindStringSubmatch(in); m != nil {
		future, past := m[1] != "", m[4] != ""
		if future == past {
			return time.Time{}, fmt.Errorf("%w: %q needs either \"in\" or \"ago\"", ErrUnrecognized, s)
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
		}
		d := unitDuration(m[3]) * time.Duration(n)
		if past {
			d = -d
		}
		return now.Add(d), nil
	}

	if t, err := time.ParseInLocation("15:04", in, now.Location()); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), nil
	}

	// Layouts are case sensitive on month names
	raw := strings.TrimSpace(s)
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, now.Location())
		if err != nil {
			continue
		}
		if layout == "Jan 2" {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, s)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextWeekday(today time.Time, day time.Weekday) time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

func lastWeekday(today time.Time, day time.Weekday) time.Time {
	daysSince := int(today.Weekday() - day)
	if daysSince <= 0 {
		daysSince += 7
	}
	return today.AddDate(0, 0, -daysSince)
}

func unitDuration(unit string) time.Duration {
	switch unit[0] {
	case 'm':
		return time.Minute
	case 'h':
		return time.Hour
	case 'w':
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Format renders t for humans relative to now
func Format(t, now time.Time) string {
	clock := t.Format("15:04")

	day := startOfDay(t)
	today := startOfDay(now)
	switch {
	case day.Equal(today):
		return "today " + clock
	case day.Equal(today.AddDate(0, 0, 1)):
		return "tomorrow " + clock
	case day.Equal(today.AddDate(0, 0, -1)):
		return "yesterday " + clock
	case t.Year() == now.Year():
		return t.Format("Mon, Jan 2 15:04")
	}
	return t.Format("Jan 2, 2006 15:04")
}
