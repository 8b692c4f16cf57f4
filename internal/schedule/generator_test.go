package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

var testAnchors = &model.AnchorTimes{
	Fajr: "04:30", Sunrise: "06:00", Dhuhr: "12:10",
	Asr: "15:30", Maghrib: "18:30", Isha: "19:55", Date: "2025-03-10",
}

func utcOpts() GenerateOptions {
	return GenerateOptions{Location: time.UTC}
}

func TestGenerateDosesForDate_SortedAndDeterministic(t *testing.T) {
	meds := []model.Medication{
		{ID: "a", Frequency: model.FrequencyTwice, TimePreference: model.PreferAny, WithFood: true},
		{ID: "b", Frequency: model.FrequencyOnce, TimePreference: model.PreferEmptyStomach},
	}

	got, err := GenerateDosesForDate(meds, testAnchors, "2025-03-10", true, utcOpts())
	require.NoError(t, err)
	require.Len(t, got, 3)

	// a: [18:30, 04:15]; b: [03:15]
	assert.Equal(t, "b-2025-03-10-0", got[0].ID)
	assert.Equal(t, time.Date(2025, 3, 10, 3, 15, 0, 0, time.UTC), got[0].ScheduledTime)
	assert.Equal(t, "a-2025-03-10-1", got[1].ID)
	assert.Equal(t, "a-2025-03-10-0", got[2].ID)
	for _, d := range got {
		assert.Equal(t, model.DosePending, d.Status)
		assert.Equal(t, "2025-03-10", d.Date)
		assert.Nil(t, d.ActualTime)
	}

	again, err := GenerateDosesForDate(meds, testAnchors, "2025-03-10", true, utcOpts())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestGenerateDosesForDate_StandardPath(t *testing.T) {
	meds := []model.Medication{{ID: "a", Frequency: model.FrequencyOnce, TimePreference: model.PreferEvening}}

	off, err := GenerateDosesForDate(meds, testAnchors, "2025-03-10", false, utcOpts())
	require.NoError(t, err)
	require.Len(t, off, 1)
	assert.Equal(t, 20, off[0].ScheduledTime.Hour())

	noAnchors, err := GenerateDosesForDate(meds, nil, "2025-03-10", true, utcOpts())
	require.NoError(t, err)
	require.Len(t, noAnchors, 1)
	assert.Equal(t, 20, noAnchors[0].ScheduledTime.Hour())
}

func TestGenerateDosesForDate_SuhoorOffset(t *testing.T) {
	meds := []model.Medication{{ID: "a", Frequency: model.FrequencyOnce, TimePreference: model.PreferMorning}}
	zero, thirty := 0, 30
	tests := []struct {
		name   string
		offset *int
		want   time.Time
	}{
		{"default", nil, time.Date(2025, 3, 10, 4, 15, 0, 0, time.UTC)},
		{"at fajr", &zero, time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC)},
		{"thirty", &thirty, time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateDosesForDate(meds, testAnchors, "2025-03-10", true, GenerateOptions{SuhoorOffset: tt.offset, Location: time.UTC})
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].ScheduledTime)
		})
	}
}

func TestGenerateDosesForDate_RejectsMalformedTimes(t *testing.T) {
	meds := []model.Medication{
		{ID: "ok", Frequency: model.FrequencyOnce, TimePreference: model.PreferAny},
		{ID: "a", Frequency: model.FrequencyCustom, CustomTimes: []string{"25:00", "07:30"}},
	}
	got, err := GenerateDosesForDate(meds, nil, "2025-03-10", false, utcOpts())
	assert.ErrorIs(t, err, ErrInvalidMedication)
	assert.ErrorContains(t, err, "medication a ")
	assert.Nil(t, got)
}

func TestGenerateDosesForDate_InvalidDate(t *testing.T) {
	_, err := GenerateDosesForDate(nil, nil, "10-03-2025", false, utcOpts())
	assert.Error(t, err)

	got, err := GenerateDosesForDate(nil, nil, "2025-03-10", false, utcOpts())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
