package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/iftar/internal/http/api"
	"github.com/Nixie-Tech-LLC/iftar/internal/http/api/schedule/packets"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
)

type MedicationController struct {
	svc *schedule.Service
}

func newMedicationController(svc *schedule.Service) *MedicationController {
	return &MedicationController{svc: svc}
}

func MedicationModule(svc *schedule.Service) api.Module {
	ctl := newMedicationController(svc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/medications", ctl.listMedications)
		c.POST("/medications", ctl.createMedication)
		c.GET("/medications/:id", ctl.getMedication)
		c.PUT("/medications/:id", ctl.updateMedication)
		c.DELETE("/medications/:id", ctl.deleteMedication)
		c.GET("/medications/:id/warnings", ctl.medicationWarnings)
	})
}

func (m *MedicationController) withWarnings(ctx *gin.Context, userID int, med model.Medication) packets.MedicationResponse {
	warnings, err := m.svc.MedicationWarnings(ctx.Request.Context(), userID, med.ID)
	if err != nil || warnings == nil {
		warnings = []string{}
	}
	return packets.MedicationResponse{Medication: med, Warnings: warnings}
}

// GET /api/medications
func (m *MedicationController) listMedications(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	meds, err := m.svc.ListMedications(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, serviceError(err, "failed to list medications")
	}
	return meds, nil
}

// POST /api/medications
func (m *MedicationController) createMedication(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateMedicationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	med, err := m.svc.CreateMedication(ctx.Request.Context(), user.ID, model.MedicationInput{
		Name:           request.Name,
		Dosage:         request.Dosage,
		Frequency:      request.Frequency,
		TimePreference: request.TimePreference,
		WithFood:       request.WithFood,
		CustomTimes:    request.CustomTimes,
		PillColor:      request.PillColor,
		PillShape:      request.PillShape,
		Notes:          request.Notes,
	})
	if err != nil {
		return nil, serviceError(err, "could not create medication")
	}
	return m.withWarnings(ctx, user.ID, med), nil
}

// GET /api/medications/:id
func (m *MedicationController) getMedication(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	med, err := m.svc.GetMedication(ctx.Request.Context(), user.ID, ctx.Param("id"))
	if err != nil {
		return nil, serviceError(err, "failed to get medication")
	}
	return m.withWarnings(ctx, user.ID, med), nil
}

// PUT /api/medications/:id
func (m *MedicationController) updateMedication(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateMedicationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	med, err := m.svc.UpdateMedication(ctx.Request.Context(), user.ID, ctx.Param("id"), model.MedicationPatch{
		Name:           request.Name,
		Dosage:         request.Dosage,
		Frequency:      request.Frequency,
		TimePreference: request.TimePreference,
		WithFood:       request.WithFood,
		CustomTimes:    request.CustomTimes,
		PillColor:      request.PillColor,
		PillShape:      request.PillShape,
		Notes:          request.Notes,
	})
	if err != nil {
		return nil, serviceError(err, "could not update medication")
	}
	return m.withWarnings(ctx, user.ID, med), nil
}

// DELETE /api/medications/:id
func (m *MedicationController) deleteMedication(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := m.svc.DeleteMedication(ctx.Request.Context(), user.ID, ctx.Param("id")); err != nil {
		return nil, serviceError(err, "could not delete medication")
	}
	return gin.H{"message": "deleted"}, nil
}

// GET /api/medications/:id/warnings
func (m *MedicationController) medicationWarnings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	warnings, err := m.svc.MedicationWarnings(ctx.Request.Context(), user.ID, ctx.Param("id"))
	if err != nil {
		return nil, serviceError(err, "failed to compute warnings")
	}
	return gin.H{"warnings": warnings}, nil
}
