package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/iftar/internal/http/api"
	"github.com/Nixie-Tech-LLC/iftar/internal/http/api/schedule/packets"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
)

type DoseController struct {
	svc *schedule.Service
}

func newDoseController(svc *schedule.Service) *DoseController {
	return &DoseController{svc: svc}
}

func DoseModule(svc *schedule.Service) api.Module {
	ctl := newDoseController(svc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/doses", ctl.listDoses)
		c.GET("/doses/today", ctl.todaysDoses)
		c.GET("/doses/date/:date", ctl.dosesByDate)
		c.DELETE("/doses/date/:date", ctl.deleteDosesByDate)
		c.PATCH("/doses/:id/status", ctl.updateDoseStatus)

		c.POST("/doses/generate", ctl.generateDoses)
		c.POST("/doses/regenerate", ctl.regenerateDoses)
		c.POST("/doses/refresh", ctl.refreshToday)

		c.GET("/doses/stats", ctl.doseStatistics)
		c.GET("/doses/calendar", ctl.calendar)
		c.GET("/doses/reminders", ctl.dueReminders)
		c.POST("/doses/export", ctl.exportHistory)

		c.GET("/dashboard", ctl.dashboard)
	})
}

// rangeQuery reads ?from=&to=, each defaulting to today.
func (d *DoseController) rangeQuery(ctx *gin.Context) (string, string) {
	today := d.svc.Today()
	return ctx.DefaultQuery("from", today), ctx.DefaultQuery("to", today)
}

// GET /api/doses
func (d *DoseController) listDoses(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	doses, err := d.svc.AllDoses(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, serviceError(err, "failed to list doses")
	}
	return doses, nil
}

// GET /api/doses/today
func (d *DoseController) todaysDoses(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	doses, err := d.svc.TodaysDoses(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, serviceError(err, "failed to list today's doses")
	}
	return doses, nil
}

// GET /api/doses/date/:date
func (d *DoseController) dosesByDate(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	doses, err := d.svc.DosesByDate(ctx.Request.Context(), user.ID, ctx.Param("date"))
	if err != nil {
		return nil, serviceError(err, "failed to list doses")
	}
	return doses, nil
}

// DELETE /api/doses/date/:date
func (d *DoseController) deleteDosesByDate(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	date := ctx.Param("date")
	n, err := d.svc.DeleteDosesByDate(ctx.Request.Context(), user.ID, date)
	if err != nil {
		return nil, serviceError(err, "could not delete doses")
	}
	return packets.DeleteDosesResponse{Date: date, Deleted: n}, nil
}

// PATCH /api/doses/:id/status
func (d *DoseController) updateDoseStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateDoseStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	dose, err := d.svc.UpdateDoseStatus(ctx.Request.Context(), user.ID, ctx.Param("id"), request.Status)
	if err != nil {
		return nil, serviceError(err, "could not update dose")
	}
	return dose, nil
}

// anchorsFor decides the mode and anchors for a generate request.
func (d *DoseController) anchorsFor(ctx *gin.Context, userID int, request packets.GenerateDosesRequest) (*model.AnchorTimes, bool, *api.APIError) {
	st, err := d.svc.GetSettings(ctx.Request.Context(), userID)
	if err != nil {
		return nil, false, serviceError(err, "failed to load settings")
	}
	ramadan := st.RamadanMode
	if request.RamadanMode != nil {
		ramadan = *request.RamadanMode
	}
	if !ramadan {
		return nil, false, nil
	}
	if request.Anchors != nil {
		a := *request.Anchors
		if a.Date == "" {
			a.Date = request.Date
		}
		if !a.Complete() {
			return nil, false, &api.APIError{Code: http.StatusBadRequest, Message: "anchors need fajr and maghrib"}
		}
		return &a, true, nil
	}
	a, err := d.svc.ResolveAnchors(ctx.Request.Context(), userID, request.Date)
	if err != nil {
		return nil, false, serviceError(err, "failed to resolve prayer times")
	}
	return a, true, nil
}

func (d *DoseController) generate(ctx *gin.Context, user *model.User, replace bool) (any, *api.APIError) {
	var request packets.GenerateDosesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	anchors, ramadan, apiErr := d.anchorsFor(ctx, user.ID, request)
	if apiErr != nil {
		return nil, apiErr
	}

	run := d.svc.GenerateDoses
	if replace {
		run = d.svc.RegenerateDoses
	}
	res, err := run(ctx.Request.Context(), user.ID, request.Date, anchors, ramadan)
	if err != nil {
		return nil, serviceError(err, "could not generate doses")
	}
	return res, nil
}

// POST /api/doses/generate
func (d *DoseController) generateDoses(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return d.generate(ctx, user, false)
}

// POST /api/doses/regenerate
func (d *DoseController) regenerateDoses(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return d.generate(ctx, user, true)
}

// POST /api/doses/refresh
func (d *DoseController) refreshToday(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	res, err := d.svc.RefreshToday(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, serviceError(err, "could not refresh today's doses")
	}
	return res, nil
}

// GET /api/doses/stats?from=&to=
func (d *DoseController) doseStatistics(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	from, to := d.rangeQuery(ctx)
	stats, err := d.svc.DoseStatistics(ctx.Request.Context(), user.ID, from, to)
	if err != nil {
		return nil, serviceError(err, "failed to compute statistics")
	}
	return stats, nil
}

// GET /api/doses/calendar?from=&to=
func (d *DoseController) calendar(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	from, to := d.rangeQuery(ctx)
	days, err := d.svc.Calendar(ctx.Request.Context(), user.ID, from, to)
	if err != nil {
		return nil, serviceError(err, "failed to build calendar")
	}
	return days, nil
}

// GET /api/doses/reminders
func (d *DoseController) dueReminders(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	due, err := d.svc.DueReminders(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, serviceError(err, "failed to list reminders")
	}
	return due, nil
}

// POST /api/doses/export
func (d *DoseController) exportHistory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ExportRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	location, err := d.svc.ExportHistory(ctx.Request.Context(), user.ID, request.From, request.To)
	if err != nil {
		return nil, serviceError(err, "could not export history")
	}
	return packets.ExportResponse{Location: location}, nil
}

// GET /api/dashboard
func (d *DoseController) dashboard(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	dash, err := d.svc.Dashboard(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, serviceError(err, "failed to build dashboard")
	}
	return dash, nil
}
