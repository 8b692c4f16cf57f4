package packets

import "github.com/Nixie-Tech-LLC/iftar/internal/model"

type CreateMedicationRequest struct {
	Name           string               `json:"name" binding:"required"`
	Dosage         string               `json:"dosage"`
	Frequency      model.Frequency      `json:"frequency" binding:"required"`
	TimePreference model.TimePreference `json:"timePreference" binding:"required"`
	WithFood       bool                 `json:"withFood"`
	CustomTimes    []string             `json:"customTimes"`
	PillColor      string               `json:"pillColor"`
	PillShape      string               `json:"pillShape"`
	Notes          string               `json:"notes"`
}

// UpdateMedicationRequest leaves absent fields untouched.
type UpdateMedicationRequest struct {
	Name           *string               `json:"name"`
	Dosage         *string               `json:"dosage"`
	Frequency      *model.Frequency      `json:"frequency"`
	TimePreference *model.TimePreference `json:"timePreference"`
	WithFood       *bool                 `json:"withFood"`
	CustomTimes    *[]string             `json:"customTimes"`
	PillColor      *string               `json:"pillColor"`
	PillShape      *string               `json:"pillShape"`
	Notes          *string               `json:"notes"`
}

type UpdateDoseStatusRequest struct {
	Status model.DoseStatus `json:"status" binding:"required"`
}

// GenerateDosesRequest names the day. Anchors may be supplied by the client;
// otherwise they are resolved from the user's settings.
type GenerateDosesRequest struct {
	Date        string             `json:"date" binding:"required"`
	Anchors     *model.AnchorTimes `json:"anchors"`
	RamadanMode *bool              `json:"isRamadanMode"`
}

type ExportRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type UpdateSettingsRequest struct {
	CalculationMethod    *model.CalculationMethod `json:"calculationMethod"`
	PreAlertMinutes      *int                     `json:"preAlertMinutes"`
	SuhoorAlertMinutes   *int                     `json:"suhoorAlertMinutes"`
	NotificationsEnabled *bool                    `json:"notificationsEnabled"`
	Location             *model.Location          `json:"location"`
	ClearLocation        bool                     `json:"clearLocation"`
	RamadanMode          *bool                    `json:"isRamadanMode"`
}
