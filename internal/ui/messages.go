package ui

import (
	"github.com/dori/daysince/internal/notify"
)

// View represents the current active view
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewForm
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewList:
		return "Counters"
	case ViewDetail:
		return "Detail"
	case ViewForm:
		return "Form"
	default:
		return "Unknown"
	}
}

// TickMsg drives recomputation of displayed values. seq identifies the
// tick chain; messages from a replaced chain are dropped.
type TickMsg struct {
	seq int
}

// DeliveryMsg carries an alert fired by the scheduler
type DeliveryMsg struct {
	Delivery notify.Delivery
}
