package display

import (
	"strings"

	"github.com/dori/daysince/internal/model"
)

// Compact is the single-unit summary shown in the list
type Compact struct {
	Value int64
	Unit  Unit
	Label string
}

// IsDays reports whether the summary has reached day resolution
func (c Compact) IsDays() bool {
	return c.Unit == UnitDays
}

// unitRule selects a unit when its predicate holds for a breakdown
type unitRule struct {
	unit  Unit
	value func(Breakdown) int64
}

// unitRules are evaluated in order; the first rule with a non-zero value
// wins. Seconds is the fallback and always matches.
var unitRules = []unitRule{
	{unit: UnitDays, value: func(b Breakdown) int64 { return b.Days }},
	{unit: UnitHours, value: func(b Breakdown) int64 { return b.TotalHours }},
	{unit: UnitMinutes, value: func(b Breakdown) int64 { return b.TotalMinutes }},
}

// Largest picks the largest non-zero unit of b
func Largest(b Breakdown, t model.Type) Compact {
	for _, r := range unitRules {
		if v := r.value(b); v > 0 {
			return Compact{Value: v, Unit: r.unit, Label: Label(r.unit, v, t)}
		}
	}
	return Compact{
		Value: b.TotalSeconds,
		Unit:  UnitSeconds,
		Label: Label(UnitSeconds, b.TotalSeconds, t),
	}
}

// Label builds "DAYS SINCE", "HOURS TO" and friends. A single day reads
// "DAY"; other units keep the plural.
func Label(u Unit, value int64, t model.Type) string {
	name := u.String()
	if u == UnitDays && value == 1 {
		name = strings.TrimSuffix(name, "S")
	}
	if t == model.TypeCountdown {
		return name + " TO"
	}
	return name + " SINCE"
}
