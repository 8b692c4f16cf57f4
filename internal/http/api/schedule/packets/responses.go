package packets

import "github.com/Nixie-Tech-LLC/iftar/internal/model"

type MedicationResponse struct {
	model.Medication
	Warnings []string `json:"warnings"`
}

type DeleteDosesResponse struct {
	Date    string `json:"date"`
	Deleted int    `json:"deleted"`
}

type ExportResponse struct {
	Location string `json:"location"`
}
