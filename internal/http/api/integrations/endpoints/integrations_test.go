package endpoints

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/iftar/internal/http/api"
	"github.com/Nixie-Tech-LLC/iftar/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
)

type fixedResolver struct{}

func (fixedResolver) Fetch(_ context.Context, _, _ float64, _ model.CalculationMethod, date string) (*model.AnchorTimes, error) {
	return &model.AnchorTimes{Fajr: "04:30", Dhuhr: "12:10", Asr: "15:30", Maghrib: "18:30", Isha: "19:55", Date: date}, nil
}

const pageTemplate = `{{define "schedule.html"}}{{.City}}|{{.Date}}|{{.Iftar}}|{{range .Prayers}}{{.Name}} {{.Time}} {{.Period}};{{end}}|{{range .Doses}}{{.Name}} {{.Time}} {{.Period}} {{.Status}};{{end}}|{{.Notice}}{{end}}`

func TestTo12h(t *testing.T) {
	tests := []struct{ in, time, period string }{
		{"00:05", "12:05", "AM"},
		{"04:30", "04:30", "AM"},
		{"12:10", "12:10", "PM"},
		{"18:30", "06:30", "PM"},
		{"bad", "bad", ""},
	}
	for _, tt := range tests {
		got, period := to12h(tt.in)
		assert.Equal(t, tt.time, got, tt.in)
		assert.Equal(t, tt.period, period, tt.in)
	}
}

func TestServeSchedule(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := schedule.NewStore(kv.NewMemory(), nil)
	defer store.Close()
	svc := schedule.NewService(store, fixedResolver{}, nil, nil, schedule.Options{
		GenerateOptions: schedule.GenerateOptions{Location: time.UTC},
		Now:             func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	})
	ctx := context.Background()
	_, err := svc.CreateMedication(ctx, 1, model.MedicationInput{Name: "Metformin", Frequency: model.FrequencyOnce, TimePreference: model.PreferEvening})
	require.NoError(t, err)

	users := func(id int) (*model.User, error) { return &model.User{ID: id}, nil }
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(pageTemplate)))
	api.MountGroup(r, api.GroupConfig{Prefix: "/api", Auth: true, SecretKey: "s", Users: users}, IntegrationsModule(svc))
	token, err := middleware.GenerateJWT(1, "s")
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/api/integrations/schedule")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MARCH 10, 2025")
	assert.Contains(t, w.Body.String(), "Prayer times are unavailable")

	_, err = svc.UpdateSettings(ctx, 1, schedule.SettingsPatch{Location: &model.Location{Latitude: 41.88, Longitude: -87.63, City: "Chicago"}})
	require.NoError(t, err)
	_, err = svc.RefreshToday(ctx, 1)
	require.NoError(t, err)

	w = get("/api/integrations/schedule")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "CHICAGO|")
	assert.Contains(t, body, "|06:30|")
	assert.Contains(t, body, "FAJR 04:30 AM;")
	assert.Contains(t, body, "MAGHRIB 06:30 PM;")
	assert.Contains(t, body, "Metformin 06:30 PM PENDING;")

	assert.Equal(t, http.StatusBadRequest, get("/api/integrations/schedule?date=soon").Code)
}
