package dosemap

import "github.com/Nixie-Tech-LLC/iftar/internal/model"

// MapStandard maps med onto fixed clock times. It is used when fasting mode is
// off or no anchors are available for the day.
func MapStandard(med model.Medication) Mapping {
	out := Mapping{Times: []string{}, Warnings: []string{}}
	food := med.WithFood || med.TimePreference == model.PreferWithFood
	empty := med.TimePreference == model.PreferEmptyStomach

	switch med.Frequency {
	case model.FrequencyOnce:
		out.Times = []string{onceStandard[med.TimePreference]}
		if out.Times[0] == "" {
			out.Times = []string{"09:00"}
		}
	case model.FrequencyTwice:
		switch {
		case food:
			out.Times = []string{"08:00", "20:00"}
		case empty:
			out.Times = []string{"07:00", "19:00"}
		case med.TimePreference == model.PreferMorning:
			out.Times = []string{"08:00", "14:00"}
		case med.TimePreference == model.PreferEvening:
			out.Times = []string{"14:00", "20:00"}
		default:
			out.Times = []string{"09:00", "21:00"}
		}
	case model.FrequencyThrice:
		if empty && !food {
			out.Times = []string{"07:00", "13:00", "19:00"}
		} else {
			out.Times = []string{"08:00", "14:00", "20:00"}
		}
	case model.FrequencyFourTimes:
		if empty && !food {
			out.Times = []string{"07:00", "11:00", "15:00", "19:00"}
		} else {
			out.Times = []string{"08:00", "12:00", "16:00", "20:00"}
		}
	case model.FrequencyCustom:
		out.Times = append(out.Times, med.CustomTimes...)
	}

	if med.WithFood && len(out.Times) > 0 {
		out.Warnings = append(out.Warnings, WarnWithFoodStandard)
	}
	return out
}

var onceStandard = map[model.TimePreference]string{
	model.PreferMorning:      "08:00",
	model.PreferEvening:      "20:00",
	model.PreferWithFood:     "12:00",
	model.PreferEmptyStomach: "07:00",
	model.PreferAny:          "09:00",
}

// Map picks the anchored mapping when ramadan is on and anchors are present,
// the standard table otherwise.
func Map(med model.Medication, anchors *model.AnchorTimes, ramadan bool, suhoorOffset int) Mapping {
	if ramadan && anchors != nil {
		return MapRamadan(med, *anchors, suhoorOffset)
	}
	return MapStandard(med)
}

// Warnings returns only the advisory text for med under the chosen mode.
func Warnings(med model.Medication, anchors *model.AnchorTimes, ramadan bool, suhoorOffset int) []string {
	return Map(med, anchors, ramadan, suhoorOffset).Warnings
}
