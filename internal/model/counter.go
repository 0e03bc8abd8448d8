package model

import (
	"time"
)

// Type is the fixed behavior of a counter
type Type string

const (
	TypeCountup   Type = "countup"
	TypeCountdown Type = "countdown"
)

// Valid reports whether t is a known counter type
func (t Type) Valid() bool {
	return t == TypeCountup || t == TypeCountdown
}

// Counter is a named timer counting up from, or down to, CreatedAt.
// CreatedAt is stored as epoch milliseconds.
type Counter struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	CreatedAt           int64  `json:"createdAt"`
	Type                Type   `json:"type"`
	IsArchived          bool   `json:"isArchived"`
	Completed           bool   `json:"completed"`
	HasNotification     bool   `json:"hasNotification,omitempty"`
	NotificationID      string `json:"notificationId,omitempty"`
	TodayNotificationID string `json:"todayNotificationId,omitempty"`
}

// Reference returns the counter's reference instant
func (c *Counter) Reference() time.Time {
	return time.UnixMilli(c.CreatedAt)
}

// IsCountdown returns true for countdown counters
func (c *Counter) IsCountdown() bool {
	return c.Type == TypeCountdown
}

// IsEditable returns true if name and date may still be changed.
// Only running countup counters can be edited.
func (c *Counter) IsEditable() bool {
	return c.Type == TypeCountup && !c.Completed
}

// CanToggleArchive returns false once a counter has completed
func (c *Counter) CanToggleArchive() bool {
	return !c.Completed
}

// Millis converts t to the epoch milliseconds used by CreatedAt
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
