package model

// Settings are the per-user scheduling preferences.
type Settings struct {
	CalculationMethod    CalculationMethod `json:"calculationMethod"`
	PreAlertMinutes      int               `json:"preAlertMinutes"`
	SuhoorAlertMinutes   int               `json:"suhoorAlertMinutes"`
	NotificationsEnabled bool              `json:"notificationsEnabled"`
	Location             *Location         `json:"location"`
	RamadanMode          bool              `json:"isRamadanMode"`
}

func DefaultSettings() Settings {
	return Settings{
		CalculationMethod:    DefaultMethod,
		PreAlertMinutes:      15,
		SuhoorAlertMinutes:   30,
		NotificationsEnabled: true,
		Location:             nil,
		RamadanMode:          true,
	}
}
