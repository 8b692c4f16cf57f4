package endpoints

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/anchor"
	"github.com/Nixie-Tech-LLC/iftar/internal/http/api"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

const scheduleTemplate = "schedule.html"

type IntegrationController struct {
	svc *schedule.Service
}

func IntegrationsModule(svc *schedule.Service) api.Module {
	ctl := &IntegrationController{svc: svc}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/integrations/schedule", ctl.serveSchedule)
	})
}

// to12h converts "17:30" to ("05:30", "PM").
func to12h(t24 string) (string, string) {
	if !wallclock.Valid(t24) {
		return t24, ""
	}
	m := wallclock.TimeToMinutes(t24)
	h, mm := m/60, m%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	if h > 12 {
		h -= 12
	}
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d", h, mm), period
}

func prayerRows(a model.AnchorTimes) []model.Prayer {
	order := []struct{ name, t string }{
		{"Fajr", a.Fajr}, {"Sunrise", a.Sunrise}, {"Dhuhr", a.Dhuhr},
		{"Asr", a.Asr}, {"Maghrib", a.Maghrib}, {"Isha", a.Isha},
	}
	out := make([]model.Prayer, 0, len(order))
	for _, p := range order {
		if p.t == "" {
			continue
		}
		t, period := to12h(p.t)
		out = append(out, model.Prayer{Name: strings.ToUpper(p.name), Time: t, Period: period})
	}
	return out
}

// GET /api/integrations/schedule?date=
func (i *IntegrationController) serveSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	reqCtx := ctx.Request.Context()
	date := ctx.DefaultQuery("date", i.svc.Today())
	day, err := time.Parse(wallclock.DateLayout, date)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid date"}
	}

	data := model.SchedulePageData{Date: strings.ToUpper(day.Format("January 2, 2006"))}

	st, err := i.svc.GetSettings(reqCtx, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load settings"}
	}
	if st.Location != nil {
		data.City = strings.ToUpper(st.Location.City)
	}

	anchors, err := i.svc.ResolveAnchors(reqCtx, user.ID, date)
	switch {
	case err == nil:
		data.Prayers = prayerRows(*anchors)
		data.Iftar, _ = to12h(anchor.IftarTime(*anchors))
		data.Suhoor, _ = to12h(anchor.SuhoorEndTime(*anchors))
	case schedule.IsAnchorUnavailable(err):
		data.Notice = "Prayer times are unavailable right now."
	default:
		log.Error().Err(err).Int("user_id", user.ID).Msg("failed to resolve anchors for schedule page")
		data.Notice = "Prayer times are unavailable right now."
	}

	doses, err := i.svc.DosesByDate(reqCtx, user.ID, date)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list doses"}
	}
	meds, err := i.svc.ListMedications(reqCtx, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list medications"}
	}
	byID := make(map[string]model.Medication, len(meds))
	for _, m := range meds {
		byID[m.ID] = m
	}
	for _, d := range doses {
		med, ok := byID[d.MedicationID]
		if !ok {
			continue
		}
		t, period := to12h(d.ScheduledTime.Format("15:04"))
		data.Doses = append(data.Doses, model.DoseRow{
			Time:     t,
			Period:   period,
			Name:     med.Name,
			Dosage:   med.Dosage,
			Status:   strings.ToUpper(string(d.Status)),
			WithFood: med.WithFood,
		})
	}

	ctx.HTML(http.StatusOK, scheduleTemplate, data)
	return nil, nil
}
