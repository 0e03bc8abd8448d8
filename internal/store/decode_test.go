package store

import (
	"testing"
	"time"

	"github.com/dori/daysince/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Defaults(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	nowMs := now.UnixMilli()

	tests := []struct {
		name string
		raw  string
		want model.Counter
	}{
		{
			name: "complete record",
			raw:  `{"id":"a","name":"A","createdAt":42,"type":"countdown","isArchived":true,"completed":false,"hasNotification":true}`,
			want: model.Counter{ID: "a", Name: "A", CreatedAt: 42, Type: model.TypeCountdown, IsArchived: true, HasNotification: true},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: model.Counter{ID: "1700000000000-0", Name: UnnamedCounter, CreatedAt: nowMs, Type: model.TypeCountup},
		},
		{
			name: "wrong field types",
			raw:  `{"id":7,"name":false,"createdAt":"yesterday","type":3,"isArchived":"yes","completed":1}`,
			want: model.Counter{ID: "1700000000000-0", Name: UnnamedCounter, CreatedAt: nowMs, Type: model.TypeCountup},
		},
		{
			name: "unknown type",
			raw:  `{"id":"b","name":"B","createdAt":5,"type":"sideways"}`,
			want: model.Counter{ID: "b", Name: "B", CreatedAt: 5, Type: model.TypeCountup},
		},
		{
			name: "completed implies archived",
			raw:  `{"id":"c","name":"C","createdAt":5,"type":"countdown","completed":true}`,
			want: model.Counter{ID: "c", Name: "C", CreatedAt: 5, Type: model.TypeCountdown, Completed: true, IsArchived: true},
		},
		{
			name: "not an object",
			raw:  `"junk"`,
			want: model.Counter{ID: "1700000000000-0", Name: UnnamedCounter, CreatedAt: nowMs, Type: model.TypeCountup},
		},
		{
			name: "fractional millis",
			raw:  `{"id":"d","name":"D","createdAt":1234.9}`,
			want: model.Counter{ID: "d", Name: "D", CreatedAt: 1234, Type: model.TypeCountup},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode("["+tt.raw+"]", now)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestDecode_UniqueIDs(t *testing.T) {
	now := time.UnixMilli(1000)
	got, err := decode(`[{"id":"x"},{"id":"x"},{},{"id":"1000-2"}]`, now)
	require.NoError(t, err)
	require.Len(t, got, 4)

	seen := map[string]bool{}
	for _, c := range got {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
	assert.Equal(t, "x", got[0].ID)
	assert.Equal(t, "1000-1", got[1].ID)
	// The stored id keeps its value; the record without one moves aside
	assert.Equal(t, "1000-2-1", got[2].ID)
	assert.Equal(t, "1000-2", got[3].ID)
	assert.Equal(t, UnnamedCounter, got[2].Name)
}

func TestDecode_StoredIDBeatsSynthesized(t *testing.T) {
	now := time.UnixMilli(1000)
	got, err := decode(`[{"name":"A"},{"id":"1000-0","name":"B"}]`, now)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, "1000-0", got[1].ID)
	assert.Equal(t, "A", got[0].Name)
	assert.NotEqual(t, "1000-0", got[0].ID)
}

func TestDecode_EpochCreatedAt(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	got, err := decode(`[{"id":"a","createdAt":0},{"id":"b","createdAt":null},{"id":"c"}]`, now)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, int64(0), got[0].CreatedAt)
	assert.Equal(t, now.UnixMilli(), got[1].CreatedAt)
	assert.Equal(t, now.UnixMilli(), got[2].CreatedAt)
}

func TestSaveLoadRoundTrip_Epoch(t *testing.T) {
	kv := newMemKV()
	s := New(Config{KV: kv, Now: func() time.Time { return start }})
	require.NoError(t, s.Load())

	epoch := time.UnixMilli(0)
	c, err := s.Add(AddParams{Name: "Epoch", CreatedAt: &epoch})
	require.NoError(t, err)
	require.Equal(t, int64(0), c.CreatedAt)

	reloaded := New(Config{KV: kv, Now: func() time.Time { return start.Add(time.Hour) }})
	require.NoError(t, reloaded.Load())
	got, ok := reloaded.Get(c.ID)
	require.True(t, ok)
	assert.Equal(t, int64(0), got.CreatedAt)
}

func TestDecode_NotAnArray(t *testing.T) {
	for _, raw := range []string{`{`, `{"id":"a"}`, ``, `null x`} {
		_, err := decode(raw, time.Now())
		assert.Error(t, err, raw)
	}
}

func TestLoad_CorruptFallsBackToEmpty(t *testing.T) {
	kv := newMemKV()
	kv.data[Key] = `not json`
	s := New(Config{KV: kv})

	err := s.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.True(t, s.Loaded())
	assert.Equal(t, 0, s.Len())

	_, err = s.Add(AddParams{Name: "Fresh start"})
	require.NoError(t, err)
	assert.Contains(t, kv.data[Key], "Fresh start")
}

func TestLoad_ReadErrorFallsBackToEmpty(t *testing.T) {
	kv := newMemKV()
	kv.getErr = assert.AnError
	s := New(Config{KV: kv})

	err := s.Load()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, s.Len())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	kv := newMemKV()
	kv.data[Key] = `[{"id":"a","name":"A","createdAt":10,"type":"countdown"},{"name":"B"},{"id":"c","name":"C","createdAt":30,"isArchived":true}]`

	s := New(Config{KV: kv, Now: func() time.Time { return now }})
	require.NoError(t, s.Load())
	first := s.All()
	require.NoError(t, s.Save())
	saved := kv.data[Key]

	reloaded := New(Config{KV: kv, Now: func() time.Time { return now.Add(time.Hour) }})
	require.NoError(t, reloaded.Load())
	assert.Equal(t, first, reloaded.All())

	require.NoError(t, reloaded.Save())
	assert.Equal(t, saved, kv.data[Key])
}

func TestSave_EmptyCollectionIsArray(t *testing.T) {
	kv := newMemKV()
	s := New(Config{KV: kv})
	require.NoError(t, s.Load())
	require.NoError(t, s.Save())
	assert.Equal(t, "[]", kv.data[Key])
}
