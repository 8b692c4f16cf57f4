package model

import "time"

type DoseStatus string

const (
	DosePending DoseStatus = "pending"
	DoseTaken   DoseStatus = "taken"
	DoseMissed  DoseStatus = "missed"
	DoseSkipped DoseStatus = "skipped"
)

func (s DoseStatus) Valid() bool {
	switch s {
	case DosePending, DoseTaken, DoseMissed, DoseSkipped:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s. Only pending is open.
func (s DoseStatus) Terminal() bool {
	return s == DoseTaken || s == DoseMissed || s == DoseSkipped
}

// ScheduledDose is one "take medication M at time T on date D" instance.
// ID is medicationID-date-index, so regenerating a day yields the same IDs.
type ScheduledDose struct {
	ID            string     `json:"id"`
	MedicationID  string     `json:"medicationId"`
	ScheduledTime time.Time  `json:"scheduledTime"`
	ActualTime    *time.Time `json:"actualTime,omitempty"`
	Status        DoseStatus `json:"status"`
	Date          string     `json:"date"`
}

// Overdue is the display-only notion of a pending dose whose time has passed.
func (d ScheduledDose) Overdue(now time.Time) bool {
	return d.Status == DosePending && d.ScheduledTime.Before(now)
}

// DoseStatistics counts doses by status.
type DoseStatistics struct {
	Taken   int `json:"taken"`
	Missed  int `json:"missed"`
	Pending int `json:"pending"`
	Skipped int `json:"skipped"`
}
