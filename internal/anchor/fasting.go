package anchor

import (
	"time"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

// IftarTime is the fast-breaking boundary.
func IftarTime(a model.AnchorTimes) string { return a.Maghrib }

// SuhoorEndTime is when eating must stop.
func SuhoorEndTime(a model.AnchorTimes) string { return a.Fajr }

// RecommendedSuhoorTime is Fajr minus minutesBefore, wrapping across midnight.
func RecommendedSuhoorTime(a model.AnchorTimes, minutesBefore int) string {
	return wallclock.SubtractMinutes(a.Fajr, minutesBefore)
}

func minuteOfDay(now time.Time) int {
	return now.Hour()*60 + now.Minute()
}

// IsDuringFastingHours reports whether now's wall clock lies in [Fajr, Maghrib).
func IsDuringFastingHours(a model.AnchorTimes, now time.Time) bool {
	cur := minuteOfDay(now)
	return cur >= wallclock.TimeToMinutes(a.Fajr) && cur < wallclock.TimeToMinutes(a.Maghrib)
}

// TimeUntilIftar is the remaining fast. ok is false outside fasting hours.
func TimeUntilIftar(a model.AnchorTimes, now time.Time) (d time.Duration, ok bool) {
	if !IsDuringFastingHours(a, now) {
		return 0, false
	}
	diff := wallclock.TimeToMinutes(a.Maghrib) - minuteOfDay(now)
	return time.Duration(diff) * time.Minute, true
}

// TimeUntilSuhoorEnds is the time left to eat before Fajr. ok is false once
// Fajr has passed for the day.
func TimeUntilSuhoorEnds(a model.AnchorTimes, now time.Time) (d time.Duration, ok bool) {
	fajr := wallclock.TimeToMinutes(a.Fajr)
	cur := minuteOfDay(now)
	if cur >= fajr {
		return 0, false
	}
	return time.Duration(fajr-cur) * time.Minute, true
}
