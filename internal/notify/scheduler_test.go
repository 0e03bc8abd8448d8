package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (r *recordingSender) Send(n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func waitDelivery(t *testing.T, s *Scheduler) Delivery {
	t.Helper()
	select {
	case d := <-s.Deliveries():
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return Delivery{}
	}
}

func TestScheduler_FiresAtInstant(t *testing.T) {
	sender := &recordingSender{}
	s := NewScheduler(sender)
	defer s.Close()

	payload := Payload{CounterID: "c1", Kind: KindExactTime}
	id, err := s.Schedule(time.Now().Add(20*time.Millisecond), payload, CountdownFinished("Launch"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	d := waitDelivery(t, s)
	assert.Equal(t, id, d.ID)
	assert.Equal(t, payload, d.Payload)
	assert.NoError(t, d.Err)
	assert.Equal(t, 1, sender.count())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_PastInstantFiresImmediately(t *testing.T) {
	s := NewScheduler(&recordingSender{})
	defer s.Close()

	_, err := s.Schedule(time.Now().Add(-time.Hour), Payload{CounterID: "c1", Kind: KindToday}, Notification{})
	require.NoError(t, err)

	d := waitDelivery(t, s)
	assert.Equal(t, KindToday, d.Payload.Kind)
}

func TestScheduler_Cancel(t *testing.T) {
	sender := &recordingSender{}
	s := NewScheduler(sender)
	defer s.Close()

	id, err := s.Schedule(time.Now().Add(50*time.Millisecond), Payload{CounterID: "c1", Kind: KindExactTime}, Notification{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Pending())

	s.Cancel(id)
	s.Cancel("unknown")
	assert.Equal(t, 0, s.Pending())

	select {
	case d := <-s.Deliveries():
		t.Fatalf("cancelled alert delivered: %+v", d)
	case <-time.After(150 * time.Millisecond):
	}
	assert.Equal(t, 0, sender.count())
}

func TestScheduler_NotifyReportsSenderError(t *testing.T) {
	sender := &recordingSender{err: errors.New("no display")}
	s := NewScheduler(sender)
	defer s.Close()

	err := s.Notify(Payload{CounterID: "c1", Kind: KindExactTime}, CountdownReached("Launch"))
	assert.Error(t, err)

	d := waitDelivery(t, s)
	assert.Error(t, d.Err)
	assert.Equal(t, "c1", d.Payload.CounterID)
}

func TestScheduler_Closed(t *testing.T) {
	s := NewScheduler(&recordingSender{})
	_, err := s.Schedule(time.Now().Add(time.Hour), Payload{}, Notification{})
	require.NoError(t, err)

	s.Close()
	assert.Equal(t, 0, s.Pending())

	_, err = s.Schedule(time.Now(), Payload{}, Notification{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAlertText(t *testing.T) {
	assert.Equal(t, "Birthday p", CountdownFinished("Birthday party").Body)
	assert.Equal(t, "Trip has been reached", CountdownReached("Trip").Body)

	target := time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "Trip ends today at 22:30!", EndsToday("Trip", target).Body)
}

func TestDisabledNotifierSendsNothing(t *testing.T) {
	n := NewNotifier(false)
	assert.False(t, n.IsEnabled())
	assert.NoError(t, n.Send(Notification{Title: "x"}))
}
