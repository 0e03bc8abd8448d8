package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Sender delivers a notification to the user
type Sender interface {
	Send(notification Notification) error
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
	}
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Available reports whether notify-send can be found on PATH
func Available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}

	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout is in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "daysince")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	cmd := exec.Command("notify-send", args...)
	return cmd.Run()
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// CountdownFinished is the alert sent at a countdown's target instant
func CountdownFinished(name string) Notification {
	return Notification{
		Title:   "Countdown Finished!",
		Body:    truncate(name, 10),
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "alarm-symbolic",
	}
}

// CountdownReached is sent immediately for a countdown created at or after
// its target instant
func CountdownReached(name string) Notification {
	return Notification{
		Title:   "Countdown",
		Body:    fmt.Sprintf("%s has been reached", truncate(name, 10)),
		Urgency: UrgencyCritical,
		Timeout: 10 * time.Second,
		Icon:    "alarm-symbolic",
	}
}

// EndsToday is the same-day reminder for a countdown
func EndsToday(name string, target time.Time) Notification {
	return Notification{
		Title:   "Countdown Update!",
		Body:    fmt.Sprintf("%s ends today at %s!", name, target.Format("15:04")),
		Urgency: UrgencyNormal,
		Timeout: 15 * time.Second,
		Icon:    "appointment-soon-symbolic",
	}
}
