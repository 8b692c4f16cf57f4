package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/iftar/internal/http/api"
	"github.com/Nixie-Tech-LLC/iftar/internal/http/api/schedule/packets"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
)

type SettingsController struct {
	svc *schedule.Service
}

func newSettingsController(svc *schedule.Service) *SettingsController {
	return &SettingsController{svc: svc}
}

func SettingsModule(svc *schedule.Service) api.Module {
	ctl := newSettingsController(svc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/settings", ctl.getSettings)
		c.PUT("/settings", ctl.updateSettings)
		c.GET("/anchors", ctl.anchors)
	})
}

// GET /api/settings
func (s *SettingsController) getSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	st, err := s.svc.GetSettings(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, serviceError(err, "failed to load settings")
	}
	return st, nil
}

// PUT /api/settings
func (s *SettingsController) updateSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	st, err := s.svc.UpdateSettings(ctx.Request.Context(), user.ID, schedule.SettingsPatch{
		CalculationMethod:    request.CalculationMethod,
		PreAlertMinutes:      request.PreAlertMinutes,
		SuhoorAlertMinutes:   request.SuhoorAlertMinutes,
		NotificationsEnabled: request.NotificationsEnabled,
		Location:             request.Location,
		ClearLocation:        request.ClearLocation,
		RamadanMode:          request.RamadanMode,
	})
	if err != nil {
		return nil, serviceError(err, "could not update settings")
	}
	return st, nil
}

// GET /api/anchors?date=
func (s *SettingsController) anchors(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	status, err := s.svc.FastingStatus(ctx.Request.Context(), user.ID, ctx.Query("date"))
	if err != nil {
		return nil, serviceError(err, "failed to resolve prayer times")
	}
	return status, nil
}
