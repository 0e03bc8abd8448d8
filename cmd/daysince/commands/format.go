package commands

import (
	"fmt"
	"time"

	"github.com/dori/daysince/internal/display"
	"github.com/dori/daysince/internal/model"
)

// shortIDLen is how much of an id the CLI prints; any unique prefix is
// accepted back.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// summary renders the largest-unit value, e.g. "12 DAYS SINCE"
func summary(c model.Counter, at time.Time) string {
	compact := display.Largest(display.Compute(c, at), c.Type)
	return fmt.Sprintf("%d %s", compact.Value, compact.Label)
}

func state(c model.Counter) string {
	switch {
	case c.Completed:
		return "completed"
	case c.IsArchived:
		return "archived"
	}
	return "running"
}

// referenceLabel names the reference instant by counter type
func referenceLabel(c model.Counter) string {
	if c.IsCountdown() {
		return "Until"
	}
	return "Since"
}
