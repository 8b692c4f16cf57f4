// Package notify publishes schedule events for out-of-process reminder delivery.
package notify

import (
	"context"
	"time"
)

type EventType string

const (
	EventDoseStatus      EventType = "dose.status"
	EventDosesGenerated  EventType = "doses.generated"
	EventDosesCleared    EventType = "doses.cleared"
	EventMedicationAdded EventType = "medication.created"
)

type Event struct {
	Type   EventType `json:"type"`
	UserID int       `json:"userId"`
	Date   string    `json:"date,omitempty"`
	DoseID string    `json:"doseId,omitempty"`
	Status string    `json:"status,omitempty"`
	Count  int       `json:"count,omitempty"`
	At     time.Time `json:"at"`
}

type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
