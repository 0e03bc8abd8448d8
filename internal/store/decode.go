package store

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/dori/daysince/internal/model"
)

// UnnamedCounter is the name given to stored records without one
const UnnamedCounter = "Unnamed Counter"

// Decode parses a stored collection the way Load does
func Decode(raw string, now time.Time) ([]model.Counter, error) {
	return decode(raw, now)
}

// decode parses the stored collection. Only a value that is not a JSON
// array fails; individual records are repaired field by field.
//
// Stored ids win over synthesized ones: explicit ids are claimed first in
// record order, then records without one take a free "<millis>-<index>".
func decode(raw string, now time.Time) ([]model.Counter, error) {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}

	counters := make([]model.Counter, len(records))
	synthesized := make([]bool, len(records))
	for i, rec := range records {
		counters[i], synthesized[i] = decodeRecord(rec, i, now)
	}

	seen := make(map[string]bool, len(records))
	for _, pass := range []bool{false, true} {
		for i := range counters {
			if synthesized[i] != pass {
				continue
			}
			if seen[counters[i].ID] {
				counters[i].ID = synthesizeID(now, i, seen)
			}
			seen[counters[i].ID] = true
		}
	}
	return counters, nil
}

// decodeRecord applies the per-field defaults and reports whether the id
// was synthesized. A record that is not a JSON object gets every default.
func decodeRecord(rec json.RawMessage, index int, now time.Time) (model.Counter, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		fields = nil
	}

	c := model.Counter{
		ID:                  stringField(fields, "id"),
		Name:                stringField(fields, "name"),
		Type:                model.Type(stringField(fields, "type")),
		IsArchived:          boolField(fields, "isArchived"),
		Completed:           boolField(fields, "completed"),
		HasNotification:     boolField(fields, "hasNotification"),
		NotificationID:      stringField(fields, "notificationId"),
		TodayNotificationID: stringField(fields, "todayNotificationId"),
	}

	synthesized := false
	if c.ID == "" {
		c.ID = fmt.Sprintf("%d-%d", now.UnixMilli(), index)
		synthesized = true
	}
	if c.Name == "" {
		c.Name = UnnamedCounter
	}
	if at, ok := millisField(fields, "createdAt"); ok {
		c.CreatedAt = at
	} else {
		c.CreatedAt = now.UnixMilli()
	}
	if !c.Type.Valid() {
		c.Type = model.TypeCountup
	}
	if c.Completed {
		c.IsArchived = true
	}
	return c, synthesized
}

// synthesizeID returns a "<millis>-<index>" id not yet in seen
func synthesizeID(now time.Time, index int, seen map[string]bool) string {
	id := fmt.Sprintf("%d-%d", now.UnixMilli(), index)
	for n := 1; seen[id]; n++ {
		id = fmt.Sprintf("%d-%d-%d", now.UnixMilli(), index, n)
	}
	return id
}

func stringField(fields map[string]json.RawMessage, key string) string {
	var v string
	if raw, ok := fields[key]; ok {
		if err := json.Unmarshal(raw, &v); err != nil {
			return ""
		}
	}
	return v
}

// boolField is true only for a literal JSON true
func boolField(fields map[string]json.RawMessage, key string) bool {
	var v bool
	if raw, ok := fields[key]; ok {
		if err := json.Unmarshal(raw, &v); err != nil {
			return false
		}
	}
	return v
}

// millisField reads an epoch-milliseconds number; fractional values are
// truncated. ok is false when the key is missing, null or not a usable
// number. Zero is a valid instant.
func millisField(fields map[string]json.RawMessage, key string) (int64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return 0, false
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v > math.MaxInt64 || *v < math.MinInt64 {
		return 0, false
	}
	return int64(*v), true
}
