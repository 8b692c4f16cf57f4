// Package schedule turns medications into dated dose instances and keeps each
// user's medications, doses and settings in an encrypted document store.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/dosemap"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

// GenerateOptions tunes generation. The zero value uses the default suhoor
// offset and time.Local.
type GenerateOptions struct {
	// SuhoorOffset is minutes before Fajr for the suhoor dose. nil means
	// dosemap.DefaultSuhoorOffset; zero puts the dose at Fajr.
	SuhoorOffset *int
	Location     *time.Location
}

func (o GenerateOptions) suhoorOffset() int {
	if o.SuhoorOffset == nil || *o.SuhoorOffset < 0 {
		return dosemap.DefaultSuhoorOffset
	}
	return *o.SuhoorOffset
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// DoseID is medicationID-date-index. Regenerating a day with the same inputs
// yields the same IDs.
func DoseID(medicationID, date string, index int) string {
	return fmt.Sprintf("%s-%s-%d", medicationID, date, index)
}

// GenerateDosesForDate builds the pending doses for one day, sorted by
// scheduled time. Each medication yields exactly one dose per mapped time, so
// a malformed time fails the whole day with ErrInvalidMedication. Anchors are used only when ramadan is set and anchors is
// non-nil; otherwise the standard table applies.
func GenerateDosesForDate(
	meds []model.Medication,
	anchors *model.AnchorTimes,
	date string,
	ramadan bool,
	opts GenerateOptions,
) ([]model.ScheduledDose, error) {
	if !wallclock.ValidDate(date) {
		return nil, fmt.Errorf("generate doses: invalid date %q", date)
	}
	opts = opts.withDefaults()

	out := make([]model.ScheduledDose, 0)
	for _, med := range meds {
		mapping := dosemap.Map(med, anchors, ramadan, opts.suhoorOffset())
		for i, t := range mapping.Times {
			if !wallclock.Valid(t) {
				log.Warn().Str("medication_id", med.ID).Str("time", t).Msg("malformed dose time")
				return nil, fmt.Errorf("%w: medication %s has malformed time %q", ErrInvalidMedication, med.ID, t)
			}
			at, err := wallclock.ParseTimeToDate(t, date, opts.Location)
			if err != nil {
				return nil, fmt.Errorf("generate doses: %w", err)
			}
			out = append(out, model.ScheduledDose{
				ID:            DoseID(med.ID, date, i),
				MedicationID:  med.ID,
				ScheduledTime: at,
				Status:        model.DosePending,
				Date:          date,
			})
		}
	}
	sortByTime(out)
	return out, nil
}

func sortByTime(doses []model.ScheduledDose) {
	sort.SliceStable(doses, func(i, j int) bool {
		return doses[i].ScheduledTime.Before(doses[j].ScheduledTime)
	})
}
