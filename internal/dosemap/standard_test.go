package dosemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

func TestMapStandard(t *testing.T) {
	tests := []struct {
		name string
		med  model.Medication
		want []string
	}{
		{"once any", model.Medication{Frequency: model.FrequencyOnce, TimePreference: model.PreferAny}, []string{"09:00"}},
		{"once morning", model.Medication{Frequency: model.FrequencyOnce, TimePreference: model.PreferMorning}, []string{"08:00"}},
		{"once evening", model.Medication{Frequency: model.FrequencyOnce, TimePreference: model.PreferEvening}, []string{"20:00"}},
		{"once with food", model.Medication{Frequency: model.FrequencyOnce, TimePreference: model.PreferWithFood}, []string{"12:00"}},
		{"once empty", model.Medication{Frequency: model.FrequencyOnce, TimePreference: model.PreferEmptyStomach}, []string{"07:00"}},
		{"once unknown pref", model.Medication{Frequency: model.FrequencyOnce}, []string{"09:00"}},
		{"twice with food", model.Medication{Frequency: model.FrequencyTwice, TimePreference: model.PreferWithFood}, []string{"08:00", "20:00"}},
		{"twice food flag", model.Medication{Frequency: model.FrequencyTwice, TimePreference: model.PreferEmptyStomach, WithFood: true}, []string{"08:00", "20:00"}},
		{"twice empty", model.Medication{Frequency: model.FrequencyTwice, TimePreference: model.PreferEmptyStomach}, []string{"07:00", "19:00"}},
		{"twice morning", model.Medication{Frequency: model.FrequencyTwice, TimePreference: model.PreferMorning}, []string{"08:00", "14:00"}},
		{"twice evening", model.Medication{Frequency: model.FrequencyTwice, TimePreference: model.PreferEvening}, []string{"14:00", "20:00"}},
		{"twice any", model.Medication{Frequency: model.FrequencyTwice, TimePreference: model.PreferAny}, []string{"09:00", "21:00"}},
		{"thrice any", model.Medication{Frequency: model.FrequencyThrice, TimePreference: model.PreferAny}, []string{"08:00", "14:00", "20:00"}},
		{"thrice empty", model.Medication{Frequency: model.FrequencyThrice, TimePreference: model.PreferEmptyStomach}, []string{"07:00", "13:00", "19:00"}},
		{"four any", model.Medication{Frequency: model.FrequencyFourTimes, TimePreference: model.PreferAny}, []string{"08:00", "12:00", "16:00", "20:00"}},
		{"four empty", model.Medication{Frequency: model.FrequencyFourTimes, TimePreference: model.PreferEmptyStomach}, []string{"07:00", "11:00", "15:00", "19:00"}},
		{"four empty with food", model.Medication{Frequency: model.FrequencyFourTimes, TimePreference: model.PreferEmptyStomach, WithFood: true}, []string{"08:00", "12:00", "16:00", "20:00"}},
		{"custom", model.Medication{Frequency: model.FrequencyCustom, CustomTimes: []string{"10:10"}}, []string{"10:10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapStandard(tt.med)
			assert.Equal(t, tt.want, got.Times)
		})
	}
}

func TestMapStandard_Warnings(t *testing.T) {
	got := MapStandard(model.Medication{Frequency: model.FrequencyFourTimes, TimePreference: model.PreferAny})
	assert.Empty(t, got.Warnings, "standard table has no frequency warnings")

	got = MapStandard(model.Medication{Frequency: model.FrequencyTwice, WithFood: true})
	assert.Equal(t, []string{WarnWithFoodStandard}, got.Warnings)
}

func TestMap_SelectsPath(t *testing.T) {
	med := model.Medication{Frequency: model.FrequencyOnce, TimePreference: model.PreferEvening}
	anchors := &model.AnchorTimes{Fajr: "04:30", Maghrib: "18:30", Date: "2025-03-01"}

	assert.Equal(t, []string{"18:30"}, Map(med, anchors, true, DefaultSuhoorOffset).Times)
	assert.Equal(t, []string{"20:00"}, Map(med, anchors, false, DefaultSuhoorOffset).Times)
	assert.Equal(t, []string{"20:00"}, Map(med, nil, true, DefaultSuhoorOffset).Times)
}

func TestWarnings(t *testing.T) {
	med := model.Medication{Frequency: model.FrequencyThrice, TimePreference: model.PreferAny}
	anchors := &model.AnchorTimes{Fajr: "04:30", Maghrib: "18:30", Date: "2025-03-01"}
	assert.Equal(t, []string{WarnThrice}, Warnings(med, anchors, true, DefaultSuhoorOffset))
	assert.Empty(t, Warnings(med, nil, true, DefaultSuhoorOffset))
}
