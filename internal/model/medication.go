package model

import "time"

type Frequency string

const (
	FrequencyOnce      Frequency = "once"
	FrequencyTwice     Frequency = "twice"
	FrequencyThrice    Frequency = "thrice"
	FrequencyFourTimes Frequency = "four_times"
	FrequencyCustom    Frequency = "custom"
)

type TimePreference string

const (
	PreferMorning      TimePreference = "morning"
	PreferEvening      TimePreference = "evening"
	PreferAny          TimePreference = "any"
	PreferWithFood     TimePreference = "with_food"
	PreferEmptyStomach TimePreference = "empty_stomach"
)

// Medication is a user-defined prescription.
type Medication struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Dosage         string         `json:"dosage"`
	Frequency      Frequency      `json:"frequency"`
	TimePreference TimePreference `json:"timePreference"`
	WithFood       bool           `json:"withFood"`
	CustomTimes    []string       `json:"customTimes,omitempty"` // only read when Frequency is custom
	PillColor      string         `json:"pillColor,omitempty"`
	PillShape      string         `json:"pillShape,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// MedicationInput carries the user-editable fields of a Medication.
type MedicationInput struct {
	Name           string
	Dosage         string
	Frequency      Frequency
	TimePreference TimePreference
	WithFood       bool
	CustomTimes    []string
	PillColor      string
	PillShape      string
	Notes          string
}

// MedicationPatch is a partial update; nil fields are left untouched.
type MedicationPatch struct {
	Name           *string
	Dosage         *string
	Frequency      *Frequency
	TimePreference *TimePreference
	WithFood       *bool
	CustomTimes    *[]string
	PillColor      *string
	PillShape      *string
	Notes          *string
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnce, FrequencyTwice, FrequencyThrice, FrequencyFourTimes, FrequencyCustom:
		return true
	}
	return false
}

func (p TimePreference) Valid() bool {
	switch p {
	case PreferMorning, PreferEvening, PreferAny, PreferWithFood, PreferEmptyStomach:
		return true
	}
	return false
}
