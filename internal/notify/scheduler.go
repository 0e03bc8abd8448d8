package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the alerts scheduled for a counter
type Kind string

const (
	// KindExactTime fires at a countdown's target instant and completes it
	KindExactTime Kind = "exactTime"
	// KindToday is the reminder earlier on the target day
	KindToday Kind = "today"
)

// ErrClosed is returned when scheduling on a closed scheduler
var ErrClosed = errors.New("scheduler closed")

// Payload identifies what a delivered alert refers to
type Payload struct {
	CounterID string `json:"counterId"`
	Kind      Kind   `json:"notificationType"`
}

// Delivery is emitted on the scheduler's channel when an alert fires
type Delivery struct {
	ID      string
	Payload Payload
	At      time.Time
	Err     error // error from the sender, if any
}

// Scheduler arms one-shot alerts. Fired alerts are sent through a Sender
// and reported on Deliveries. Timers run on their own goroutines; consumers
// must read Deliveries from the goroutine that owns the counters.
type Scheduler struct {
	sender Sender
	now    func() time.Time

	mu         sync.Mutex
	timers     map[string]*time.Timer
	deliveries chan Delivery
	closed     bool
}

// NewScheduler creates a scheduler delivering through sender
func NewScheduler(sender Sender) *Scheduler {
	return &Scheduler{
		sender:     sender,
		now:        time.Now,
		timers:     make(map[string]*time.Timer),
		deliveries: make(chan Delivery, 16),
	}
}

// Deliveries returns the channel of fired alerts
func (s *Scheduler) Deliveries() <-chan Delivery {
	return s.deliveries
}

// Schedule arms an alert for at and returns its id. An instant in the past
// fires immediately.
func (s *Scheduler) Schedule(at time.Time, payload Payload, alert Notification) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.fire(id, payload, alert)
	})
	return id, nil
}

// Notify sends alert right away and reports it like a scheduled delivery
func (s *Scheduler) Notify(payload Payload, alert Notification) error {
	err := s.sender.Send(alert)
	s.emit(Delivery{ID: uuid.New().String(), Payload: payload, At: s.now(), Err: err})
	return err
}

// Cancel disarms a pending alert. Unknown ids are ignored.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of armed alerts
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close stops every pending alert. Alerts scheduled afterwards fail.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.closed = true
}

func (s *Scheduler) fire(id string, payload Payload, alert Notification) {
	s.mu.Lock()
	_, armed := s.timers[id]
	delete(s.timers, id)
	s.mu.Unlock()
	if !armed {
		return
	}

	err := s.sender.Send(alert)
	s.emit(Delivery{ID: id, Payload: payload, At: s.now(), Err: err})
}

// emit never blocks; a full channel drops the delivery. The exact-time
// completion is also caught by the store's periodic tick.
func (s *Scheduler) emit(d Delivery) {
	select {
	case s.deliveries <- d:
	default:
	}
}
