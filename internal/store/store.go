// Package store owns the collection of counters. It keeps the collection in
// memory, rewrites it in full to a string-keyed durable store after every
// mutation, and asks a scheduler for countdown alerts.
//
// A Store is not safe for concurrent use. All calls must come from the
// goroutine that owns it (the TUI update loop or a CLI command).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dori/daysince/internal/display"
	"github.com/dori/daysince/internal/model"
	"github.com/dori/daysince/internal/notify"
	"github.com/google/uuid"
)

// Key is the durable store key holding the serialized collection
const Key = "daysince:counters"

// DefaultReminderHour is the hour of the same-day countdown reminder
const DefaultReminderHour = 21

// reachedWindow bounds how stale a countdown target may be and still get
// an immediate "reached" alert when it is created.
const reachedWindow = 10 * time.Second

var (
	// ErrEmptyName is returned when a counter name is blank after trimming
	ErrEmptyName = errors.New("counter name is empty")
	// ErrNotEditable is returned when editing a countdown or a completed counter
	ErrNotEditable = errors.New("only running countup counters can be edited")
	// ErrInvalidType is returned for an unknown counter type
	ErrInvalidType = errors.New("invalid counter type")
	// ErrCorrupt wraps failures to parse the persisted collection
	ErrCorrupt = errors.New("stored counters are unreadable")
	// ErrNotFound is returned by Resolve when nothing matches
	ErrNotFound = errors.New("counter not found")
	// ErrAmbiguous is returned by Resolve when a prefix matches several counters
	ErrAmbiguous = errors.New("counter id prefix is ambiguous")
)

// KV is the durable string store the collection is persisted to
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Scheduler arms countdown alerts
type Scheduler interface {
	Schedule(at time.Time, payload notify.Payload, alert notify.Notification) (string, error)
	Notify(payload notify.Payload, alert notify.Notification) error
	Cancel(id string)
}

// Config holds the store's collaborators
type Config struct {
	KV        KV
	Scheduler Scheduler // nil disables alerts
	Logger    *log.Logger
	Now       func() time.Time

	// ReminderHour is the local hour of the same-day reminder (0-23)
	ReminderHour int
}

// Store holds the counters
type Store struct {
	kv           KV
	sched        Scheduler
	log          *log.Logger
	now          func() time.Time
	reminderHour int

	counters []model.Counter
	loaded   bool
	saveErr  error
}

// New creates a store. Load must be called before mutations are persisted.
func New(cfg Config) *Store {
	s := &Store{
		kv:           cfg.KV,
		sched:        cfg.Scheduler,
		log:          cfg.Logger,
		now:          cfg.Now,
		reminderHour: cfg.ReminderHour,
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.reminderHour < 0 || s.reminderHour > 23 {
		s.reminderHour = DefaultReminderHour
	}
	return s
}

// Loaded reports whether Load has run
func (s *Store) Loaded() bool {
	return s.loaded
}

// Load reads the persisted collection. A missing key yields an empty
// collection. Unreadable data also yields an empty collection and an error
// wrapping ErrCorrupt; the store stays usable either way.
func (s *Store) Load() error {
	defer func() { s.loaded = true }()
	s.counters = nil

	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		s.log.Error("failed to read counters", "err", err)
		return fmt.Errorf("failed to read counters: %w", err)
	}
	if !ok {
		return nil
	}

	counters, err := decode(raw, s.now())
	if err != nil {
		s.log.Error("stored counters are unreadable", "err", err)
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.counters = counters
	s.log.Debug("counters loaded", "count", len(counters))
	return nil
}

// Replace swaps the collection for the one encoded in raw and saves it.
// Alerts armed for the old collection are cancelled.
func (s *Store) Replace(raw string) error {
	counters, err := decode(raw, s.now())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	for i := range s.counters {
		s.disarm(&s.counters[i])
	}
	s.counters = counters
	s.loaded = true
	s.log.Info("counters replaced", "count", len(counters))
	return s.Save()
}

// Save writes the whole collection. It does nothing before Load.
func (s *Store) Save() error {
	if !s.loaded {
		return nil
	}

	data, err := encode(s.counters)
	if err != nil {
		return fmt.Errorf("failed to encode counters: %w", err)
	}
	if err := s.kv.Set(Key, data); err != nil {
		s.saveErr = err
		s.log.Error("failed to save counters", "err", err)
		return fmt.Errorf("failed to save counters: %w", err)
	}
	s.saveErr = nil
	return nil
}

// SaveErr returns the error of the last failed write, or nil once a later
// write succeeds.
func (s *Store) SaveErr() error {
	return s.saveErr
}

// persist saves after a mutation. Failures are logged by Save and
// otherwise ignored.
func (s *Store) persist() {
	_ = s.Save()
}

// All returns a copy of the collection in order
func (s *Store) All() []model.Counter {
	out := make([]model.Counter, len(s.counters))
	copy(out, s.counters)
	return out
}

// Len returns the number of counters
func (s *Store) Len() int {
	return len(s.counters)
}

// Get returns the counter with id
func (s *Store) Get(id string) (model.Counter, bool) {
	if i := s.index(id); i >= 0 {
		return s.counters[i], true
	}
	return model.Counter{}, false
}

// Resolve finds a counter by exact id or unique id prefix
func (s *Store) Resolve(ref string) (model.Counter, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Counter{}, ErrNotFound
	}
	if c, ok := s.Get(ref); ok {
		return c, nil
	}

	var match *model.Counter
	for i := range s.counters {
		if strings.HasPrefix(s.counters[i].ID, ref) {
			if match != nil {
				return model.Counter{}, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
			}
			match = &s.counters[i]
		}
	}
	if match == nil {
		return model.Counter{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return *match, nil
}

// Displayed returns the counters whose archive state equals archived.
// Displayed(false) is the Current view, Displayed(true) the Past view.
func (s *Store) Displayed(archived bool) []model.Counter {
	var out []model.Counter
	for _, c := range s.counters {
		if c.IsArchived == archived {
			out = append(out, c)
		}
	}
	return out
}

// NeedsTick reports whether any current counter is within a day of its
// reference instant, so its display changes faster than once a day.
func (s *Store) NeedsTick(now time.Time) bool {
	for _, c := range s.counters {
		if !c.IsArchived && display.WithinDay(c, now) {
			return true
		}
	}
	return false
}

func (s *Store) index(id string) int {
	for i := range s.counters {
		if s.counters[i].ID == id {
			return i
		}
	}
	return -1
}

// AddParams describes a new counter. A nil CreatedAt means now and an
// empty Type means countup.
type AddParams struct {
	Name      string
	CreatedAt *time.Time
	Type      model.Type
}

// Add creates a counter and appends it to the collection
func (s *Store) Add(p AddParams) (model.Counter, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return model.Counter{}, ErrEmptyName
	}

	typ := p.Type
	if typ == "" {
		typ = model.TypeCountup
	}
	if !typ.Valid() {
		return model.Counter{}, fmt.Errorf("%w: %q", ErrInvalidType, p.Type)
	}

	now := s.now()
	at := now
	if p.CreatedAt != nil {
		at = *p.CreatedAt
	}

	c := model.Counter{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: model.Millis(at),
		Type:      typ,
	}

	if c.IsCountdown() {
		if display.Expired(c, now) {
			c.Completed = true
			c.IsArchived = true
			if now.Sub(at) < reachedWindow {
				s.notifyNow(c, notify.CountdownReached(c.Name))
			}
		} else {
			s.arm(&c, now)
		}
	}

	s.counters = append(s.counters, c)
	s.log.Info("counter added", "id", c.ID, "type", c.Type, "completed", c.Completed)
	s.persist()
	return c, nil
}

// Remove deletes the counter with id and cancels its pending alerts.
// Unknown ids are a no-op.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.disarm(&s.counters[i])
	s.counters = append(s.counters[:i], s.counters[i+1:]...)
	s.log.Info("counter removed", "id", id)
	s.persist()
	return true
}

// ToggleArchive flips the archive state. Completed counters stay archived.
func (s *Store) ToggleArchive(id string) bool {
	i := s.index(id)
	if i < 0 || !s.counters[i].CanToggleArchive() {
		return false
	}
	s.counters[i].IsArchived = !s.counters[i].IsArchived
	s.log.Info("counter archive toggled", "id", id, "archived", s.counters[i].IsArchived)
	s.persist()
	return true
}

// MarkCompleted moves a counter to its terminal state. It returns true only
// for the call that performed the transition.
func (s *Store) MarkCompleted(id string) bool {
	i := s.index(id)
	if i < 0 || s.counters[i].Completed {
		return false
	}
	c := &s.counters[i]
	c.Completed = true
	c.IsArchived = true
	// Cancelling an alert that already fired is a no-op
	s.disarm(c)
	s.log.Info("counter completed", "id", id)
	s.persist()
	return true
}

// EditParams holds the fields to change; nil fields are left alone
type EditParams struct {
	Name      *string
	CreatedAt *time.Time
}

// Edit renames and/or reschedules a countup counter. Unknown ids are a
// no-op.
func (s *Store) Edit(id string, p EditParams) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	c := &s.counters[i]
	if !c.IsEditable() {
		return ErrNotEditable
	}

	var name string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrEmptyName
		}
	}

	changed := false
	if p.Name != nil && name != c.Name {
		c.Name = name
		changed = true
	}
	if p.CreatedAt != nil {
		if at := model.Millis(*p.CreatedAt); at != c.CreatedAt {
			c.CreatedAt = at
			changed = true
		}
	}
	if changed {
		s.log.Info("counter edited", "id", id)
		s.persist()
	}
	return nil
}

// Rename changes a countup counter's name
func (s *Store) Rename(id, name string) error {
	return s.Edit(id, EditParams{Name: &name})
}

// Reschedule moves a countup counter's start moment
func (s *Store) Reschedule(id string, at time.Time) error {
	return s.Edit(id, EditParams{CreatedAt: &at})
}

// Completion reports a countdown that expired during Tick
type Completion struct {
	Counter model.Counter
	// Alerted is true when the completion alert was sent by Tick itself
	// because no exact-time alert was armed for the counter
	Alerted bool
}

// Tick completes every countdown that has reached its target at now. Each
// counter is reported once: completed counters are skipped afterwards.
func (s *Store) Tick(now time.Time) []Completion {
	var expired []string
	for _, c := range s.counters {
		if !c.Completed && display.Expired(c, now) {
			expired = append(expired, c.ID)
		}
	}

	var out []Completion
	for _, id := range expired {
		if !s.MarkCompleted(id) {
			continue
		}
		c, _ := s.Get(id)
		ev := Completion{Counter: c}
		if c.NotificationID == "" && s.sched != nil {
			s.notifyNow(c, notify.CountdownFinished(c.Name))
			ev.Alerted = true
		}
		out = append(out, ev)
	}
	return out
}

// HandleDelivery reacts to a fired alert. Exact-time alerts complete their
// counter; other kinds are informational. Returns true when a counter was
// completed.
func (s *Store) HandleDelivery(p notify.Payload) bool {
	if p.Kind != notify.KindExactTime {
		return false
	}
	return s.MarkCompleted(p.CounterID)
}

// Rearm schedules alerts for running countdowns after a restart. Alert ids
// left over from an earlier run are cleared; countdowns already past their
// target are left for Tick.
func (s *Store) Rearm() int {
	if s.sched == nil {
		return 0
	}
	now := s.now()
	armed := 0
	changed := false
	for i := range s.counters {
		c := &s.counters[i]
		if !c.IsCountdown() || c.Completed {
			continue
		}
		if c.NotificationID != "" || c.TodayNotificationID != "" || c.HasNotification {
			c.NotificationID = ""
			c.TodayNotificationID = ""
			c.HasNotification = false
			changed = true
		}
		if display.Expired(*c, now) {
			continue
		}
		s.arm(c, now)
		if c.NotificationID != "" {
			armed++
			changed = true
		}
	}
	if changed {
		s.persist()
	}
	return armed
}

// arm schedules the exact-time alert and, when it falls between now and
// the target, the same-day reminder.
func (s *Store) arm(c *model.Counter, now time.Time) {
	if s.sched == nil {
		return
	}
	target := c.Reference()

	id, err := s.sched.Schedule(target,
		notify.Payload{CounterID: c.ID, Kind: notify.KindExactTime},
		notify.CountdownFinished(c.Name))
	if err != nil {
		s.log.Warn("failed to schedule countdown alert", "id", c.ID, "err", err)
	} else {
		c.NotificationID = id
		c.HasNotification = true
	}

	reminder := time.Date(target.Year(), target.Month(), target.Day(), s.reminderHour, 0, 0, 0, target.Location())
	if !reminder.After(now) || !reminder.Before(target) {
		return
	}
	id, err = s.sched.Schedule(reminder,
		notify.Payload{CounterID: c.ID, Kind: notify.KindToday},
		notify.EndsToday(c.Name, target))
	if err != nil {
		s.log.Warn("failed to schedule reminder", "id", c.ID, "err", err)
		return
	}
	c.TodayNotificationID = id
	c.HasNotification = true
}

func (s *Store) disarm(c *model.Counter) {
	if s.sched == nil {
		return
	}
	if c.NotificationID != "" {
		s.sched.Cancel(c.NotificationID)
	}
	if c.TodayNotificationID != "" {
		s.sched.Cancel(c.TodayNotificationID)
	}
}

func (s *Store) notifyNow(c model.Counter, alert notify.Notification) {
	if s.sched == nil {
		return
	}
	payload := notify.Payload{CounterID: c.ID, Kind: notify.KindExactTime}
	if err := s.sched.Notify(payload, alert); err != nil {
		s.log.Warn("failed to send alert", "id", c.ID, "err", err)
	}
}

// encode serializes the collection; an empty collection is "[]"
func encode(counters []model.Counter) (string, error) {
	if counters == nil {
		counters = []model.Counter{}
	}
	data, err := json.Marshal(counters)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
