// Package dosemap turns a medication's frequency and food constraints into the
// day's dose clock times, either relative to the iftar/suhoor anchors or from a
// fixed standard table when no anchors are in play.
//
// Every function here is pure: the same inputs give the same times in the same
// order. Times are emitted in a fixed per-frequency order, which is not always
// chronological (a twice-daily dose yields [iftar, suhoor]).
package dosemap

import (
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

const (
	WarnThrice = "⚠️ Three doses in the non-fasting window may be challenging. Consult your doctor about adjustments."
	WarnFour   = "⚠️ CRITICAL: Four doses in the non-fasting window is very difficult. You MUST consult your doctor."

	WarnWithFoodRamadan  = "This medication should be taken with food during Iftar or Suhoor."
	WarnWithFoodStandard = "This medication should be taken with food."

	// DefaultSuhoorOffset is how many minutes before Fajr the suhoor dose lands.
	DefaultSuhoorOffset = 15

	emptyStomachAfterIftar  = 120
	emptyStomachBeforeSuhur = 60
)

// Mapping is the mapper's transient output.
type Mapping struct {
	Times    []string `json:"times"`
	Warnings []string `json:"warnings"`
}

// MapDoses maps one medication onto the iftar→suhoor window.
// customTimes is only consulted for the custom frequency.
func MapDoses(
	freq model.Frequency,
	pref model.TimePreference,
	withFood bool,
	iftar, suhoor string,
	customTimes []string,
) Mapping {
	out := Mapping{Times: []string{}, Warnings: []string{}}

	switch freq {
	case model.FrequencyOnce:
		out.Times = onceDaily(pref, iftar, suhoor)
	case model.FrequencyTwice:
		out.Times = twiceDaily(pref, withFood, iftar, suhoor)
	case model.FrequencyThrice:
		out.Times = thriceDaily(iftar, suhoor)
		out.Warnings = append(out.Warnings, WarnThrice)
	case model.FrequencyFourTimes:
		out.Times = fourTimesDaily(iftar, suhoor)
		out.Warnings = append(out.Warnings, WarnFour)
	case model.FrequencyCustom:
		out.Times = append(out.Times, customTimes...)
	}

	if withFood && len(out.Times) > 0 {
		out.Warnings = append(out.Warnings, WarnWithFoodRamadan)
	}
	return out
}

// MapRamadan maps med against a day's anchors. Iftar is Maghrib and suhoor is
// Fajr minus suhoorOffset minutes.
func MapRamadan(med model.Medication, anchors model.AnchorTimes, suhoorOffset int) Mapping {
	return MapDoses(
		med.Frequency,
		med.TimePreference,
		med.WithFood,
		IftarTime(anchors),
		SuhoorTime(anchors, suhoorOffset),
		med.CustomTimes,
	)
}

func IftarTime(a model.AnchorTimes) string {
	return a.Maghrib
}

// SuhoorTime is the recommended last-meal time: Fajr minus minutesBefore,
// wrapping across midnight.
func SuhoorTime(a model.AnchorTimes, minutesBefore int) string {
	return wallclock.SubtractMinutes(a.Fajr, minutesBefore)
}

func onceDaily(pref model.TimePreference, iftar, suhoor string) []string {
	switch pref {
	case model.PreferMorning:
		return []string{suhoor}
	case model.PreferEmptyStomach:
		return []string{wallclock.SubtractMinutes(suhoor, emptyStomachBeforeSuhur)}
	default:
		return []string{iftar}
	}
}

func twiceDaily(pref model.TimePreference, withFood bool, iftar, suhoor string) []string {
	if withFood || pref == model.PreferWithFood {
		return []string{iftar, suhoor}
	}
	if pref == model.PreferEmptyStomach {
		return []string{
			wallclock.AddMinutes(iftar, emptyStomachAfterIftar),
			wallclock.SubtractMinutes(suhoor, emptyStomachBeforeSuhur),
		}
	}
	return []string{iftar, suhoor}
}

// window returns the iftar minute-of-day and the length of the iftar→suhoor
// interval, measured across midnight when suhoor is numerically earlier.
func window(iftar, suhoor string) (start, length int) {
	start = wallclock.TimeToMinutes(iftar)
	end := wallclock.TimeToMinutes(suhoor)
	if end < start {
		return start, wallclock.MinutesPerDay - start + end
	}
	return start, end - start
}

func thriceDaily(iftar, suhoor string) []string {
	start, length := window(iftar, suhoor)
	mid := wallclock.MinutesToTime(start + length/2)
	return []string{iftar, mid, suhoor}
}

func fourTimesDaily(iftar, suhoor string) []string {
	start, length := window(iftar, suhoor)
	interval := length / 4
	return []string{
		iftar,
		wallclock.MinutesToTime(start + interval),
		wallclock.MinutesToTime(start + 2*interval),
		wallclock.MinutesToTime(start + 3*interval),
	}
}
