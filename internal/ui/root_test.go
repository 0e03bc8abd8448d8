package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/daysince/internal/model"
	"github.com/dori/daysince/internal/notify"
	"github.com/dori/daysince/internal/store"
	"github.com/dori/daysince/internal/ui/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data   map[string]string
	setErr error
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

var start = time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)

func newRoot(t *testing.T) (RootModel, *store.Store, *clock, *memKV) {
	t.Helper()
	clk := &clock{now: start}
	kv := &memKV{data: map[string]string{}}
	s := store.New(store.Config{KV: kv, Now: clk.Now})
	require.NoError(t, s.Load())
	m := New(Options{Store: s, Theme: "nord", Now: clk.Now})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(RootModel), s, clk, kv
}

func update(t *testing.T, m RootModel, msg tea.Msg) RootModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(RootModel)
}

func TestRoot_OpenFormAndSave(t *testing.T) {
	m, s, _, _ := newRoot(t)

	m = update(t, m, views.OpenFormMsg{})
	assert.Equal(t, ViewForm, m.currentView)
	assert.Contains(t, m.View(), "New counter")

	c, err := s.Add(store.AddParams{Name: "Gym"})
	require.NoError(t, err)
	m = update(t, m, views.SavedMsg{ID: c.ID, Message: "Added: Gym"})
	assert.Equal(t, ViewList, m.currentView)
	out := m.View()
	assert.Contains(t, out, "Added: Gym")
	assert.Contains(t, out, "Gym")
}

func TestRoot_DetailForcesFastTick(t *testing.T) {
	m, s, _, _ := newRoot(t)
	old := start.Add(-10 * 24 * time.Hour)
	c, err := s.Add(store.AddParams{Name: "Old", CreatedAt: &old})
	require.NoError(t, err)

	m = update(t, m, views.BackMsg{})
	assert.False(t, m.fastTick)
	seq := m.tickSeq

	next, cmd := m.Update(views.OpenDetailMsg{ID: c.ID})
	m = next.(RootModel)
	assert.Equal(t, ViewDetail, m.currentView)
	assert.True(t, m.fastTick)
	assert.Equal(t, seq+1, m.tickSeq)
	assert.NotNil(t, cmd)
}

func TestRoot_StaleTickIgnored(t *testing.T) {
	m, s, clk, _ := newRoot(t)
	target := start.Add(30 * time.Second)
	c, err := s.Add(store.AddParams{Name: "Soon", CreatedAt: &target, Type: model.TypeCountdown})
	require.NoError(t, err)
	clk.now = start.Add(time.Minute)

	m = update(t, m, TickMsg{seq: m.tickSeq + 5})
	got, _ := s.Get(c.ID)
	assert.False(t, got.Completed)

	m = update(t, m, TickMsg{seq: m.tickSeq})
	got, _ = s.Get(c.ID)
	assert.True(t, got.Completed)
	assert.Contains(t, m.View(), "Countdown finished: Soon")
}

func TestRoot_DeliveryCompletesCountdown(t *testing.T) {
	m, s, _, _ := newRoot(t)
	target := start.Add(time.Hour)
	c, err := s.Add(store.AddParams{Name: "Call", CreatedAt: &target, Type: model.TypeCountdown})
	require.NoError(t, err)

	ch := make(chan notify.Delivery)
	m.deliveries = ch

	next, cmd := m.Update(DeliveryMsg{Delivery: notify.Delivery{
		Payload: notify.Payload{CounterID: c.ID, Kind: notify.KindToday},
	}})
	m = next.(RootModel)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Reminder: Call ends today")
	got, _ := s.Get(c.ID)
	assert.False(t, got.Completed)

	m = update(t, m, DeliveryMsg{Delivery: notify.Delivery{
		Payload: notify.Payload{CounterID: c.ID, Kind: notify.KindExactTime},
	}})
	got, _ = s.Get(c.ID)
	assert.True(t, got.Completed)
	assert.True(t, got.IsArchived)
	assert.Contains(t, m.View(), "Countdown finished: Call")
}

func TestRoot_SaveErrorSurfacedOnce(t *testing.T) {
	m, s, _, kv := newRoot(t)
	kv.setErr = errors.New("disk full")

	_, err := s.Add(store.AddParams{Name: "Lost"})
	require.NoError(t, err)
	m = update(t, m, views.StatusMsg{Message: "Added: Lost"})
	assert.Contains(t, m.errorMsg, "disk full")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Empty(t, m.errorMsg)

	// Still failing, but already reported
	_, err = s.Add(store.AddParams{Name: "Lost again"})
	require.NoError(t, err)
	m = update(t, m, views.StatusMsg{Message: "Added: Lost again"})
	assert.Empty(t, m.errorMsg)
}

func TestRoot_ThemeCycle(t *testing.T) {
	m, _, _, _ := newRoot(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "dracula", m.ctx.Palette.Theme.Name)
	assert.Contains(t, m.View(), "theme: dracula")
}

func TestRoot_QuitOnlyOutsideInput(t *testing.T) {
	m, _, _, _ := newRoot(t)
	m = update(t, m, views.OpenFormMsg{})

	// Typed into the name field instead
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, ViewForm, m.currentView)
	assert.Contains(t, m.View(), "q")

	m = update(t, m, views.BackMsg{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRoot_LoadErrorShown(t *testing.T) {
	s := store.New(store.Config{KV: &memKV{data: map[string]string{}}})
	require.NoError(t, s.Load())
	m := New(Options{Store: s, LoadErr: store.ErrCorrupt})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "could not be read")
}

func TestRoot_HelpToggle(t *testing.T) {
	m, _, _, _ := newRoot(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.helpVisible)
	assert.Contains(t, m.View(), "daysince help")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.helpVisible)
}
