package display

import (
	"testing"
	"time"

	"github.com/dori/daysince/internal/model"
	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func countup(at time.Time) model.Counter {
	return model.Counter{ID: "c1", Name: "X", CreatedAt: at.UnixMilli(), Type: model.TypeCountup}
}

func countdown(at time.Time) model.Counter {
	return model.Counter{ID: "c2", Name: "Y", CreatedAt: at.UnixMilli(), Type: model.TypeCountdown}
}

func TestCompute_Countup(t *testing.T) {
	c := countup(base)

	t.Run("at creation", func(t *testing.T) {
		b := Compute(c, base)
		assert.Equal(t, Breakdown{}, b)
		assert.True(t, b.IsZero())
	})

	t.Run("ninety seconds later", func(t *testing.T) {
		b := Compute(c, base.Add(90*time.Second))
		assert.Equal(t, int64(0), b.Days)
		assert.Equal(t, int64(0), b.Hours)
		assert.Equal(t, int64(1), b.Minutes)
		assert.Equal(t, int64(30), b.Seconds)
	})

	t.Run("days are not capped", func(t *testing.T) {
		b := Compute(c, base.Add(400*24*time.Hour+5*time.Hour+7*time.Minute+3*time.Second))
		assert.Equal(t, int64(400), b.Days)
		assert.Equal(t, int64(5), b.Hours)
		assert.Equal(t, int64(7), b.Minutes)
		assert.Equal(t, int64(3), b.Seconds)
	})

	t.Run("before creation clamps to zero", func(t *testing.T) {
		b := Compute(c, base.Add(-time.Hour))
		assert.True(t, b.IsZero())
	})

	t.Run("sub-second remainder is floored", func(t *testing.T) {
		b := Compute(c, base.Add(1999*time.Millisecond))
		assert.Equal(t, int64(1), b.Seconds)
	})
}

func TestCompute_Countdown(t *testing.T) {
	c := countdown(base.Add(26 * time.Hour))

	b := Compute(c, base)
	assert.Equal(t, int64(1), b.Days)
	assert.Equal(t, int64(2), b.Hours)
	assert.Equal(t, int64(26), b.TotalHours)

	past := Compute(c, base.Add(27*time.Hour))
	assert.True(t, past.IsZero())
}

func TestExpired(t *testing.T) {
	c := countdown(base.Add(10 * time.Second))
	assert.False(t, Expired(c, base))
	assert.True(t, Expired(c, base.Add(10*time.Second)))
	assert.True(t, Expired(c, base.Add(11*time.Second)))
	assert.False(t, Expired(countup(base), base.Add(time.Hour)))
}

func TestRemaining(t *testing.T) {
	c := countdown(base.Add(time.Minute))
	assert.Equal(t, time.Minute, Remaining(c, base))
	assert.Equal(t, time.Duration(0), Remaining(c, base.Add(2*time.Minute)))
}

func TestWithinDay(t *testing.T) {
	c := countup(base)
	assert.True(t, WithinDay(c, base.Add(23*time.Hour)))
	assert.False(t, WithinDay(c, base.Add(24*time.Hour)))
	assert.True(t, WithinDay(c, base.Add(-time.Hour)))
}

func TestLargest(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		typ     model.Type
		want    Compact
	}{
		{"zero", 0, model.TypeCountup, Compact{0, UnitSeconds, "SECONDS SINCE"}},
		{"seconds", 42 * time.Second, model.TypeCountup, Compact{42, UnitSeconds, "SECONDS SINCE"}},
		{"minutes", 90 * time.Second, model.TypeCountup, Compact{1, UnitMinutes, "MINUTES SINCE"}},
		{"hours", 3*time.Hour + 59*time.Minute, model.TypeCountup, Compact{3, UnitHours, "HOURS SINCE"}},
		{"one day", 25 * time.Hour, model.TypeCountup, Compact{1, UnitDays, "DAY SINCE"}},
		{"many days", 72 * time.Hour, model.TypeCountup, Compact{3, UnitDays, "DAYS SINCE"}},
		{"countdown hours", 2 * time.Hour, model.TypeCountdown, Compact{2, UnitHours, "HOURS TO"}},
		{"countdown one day", 24 * time.Hour, model.TypeCountdown, Compact{1, UnitDays, "DAY TO"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c model.Counter
			var now time.Time
			if tt.typ == model.TypeCountdown {
				c = countdown(base.Add(tt.elapsed))
				now = base
			} else {
				c = countup(base)
				now = base.Add(tt.elapsed)
			}
			got := Largest(Compute(c, now), tt.typ)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Unit == UnitDays, got.IsDays())
		})
	}
}

func TestClock(t *testing.T) {
	b := Compute(countup(base), base.Add(3*24*time.Hour+4*time.Hour+5*time.Minute+6*time.Second))
	assert.Equal(t, "03:04:05:06", Clock(b))
}
