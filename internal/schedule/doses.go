package schedule

import (
	"context"
	"fmt"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/notify"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

// CanTransition reports whether a dose may move from one status to another.
// Every move leaves pending for a terminal status; a day with a wrong
// terminal status is corrected by regenerating it.
func CanTransition(from, to model.DoseStatus) bool {
	return from.Valid() && !from.Terminal() && to.Valid() && to.Terminal()
}

func cloneDose(d model.ScheduledDose) model.ScheduledDose {
	if d.ActualTime != nil {
		t := *d.ActualTime
		d.ActualTime = &t
	}
	return d
}

func cloneDoses(in []model.ScheduledDose) []model.ScheduledDose {
	out := make([]model.ScheduledDose, len(in))
	for i, d := range in {
		out[i] = cloneDose(d)
	}
	return out
}

func dosesOn(all []model.ScheduledDose, date string) []model.ScheduledDose {
	out := make([]model.ScheduledDose, 0)
	for _, d := range all {
		if d.Date == date {
			out = append(out, cloneDose(d))
		}
	}
	sortByTime(out)
	return out
}

// withoutDate returns all doses not on date, in their stored order.
func withoutDate(all []model.ScheduledDose, date string) []model.ScheduledDose {
	out := make([]model.ScheduledDose, 0, len(all))
	for _, d := range all {
		if d.Date != date {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) AllDoses(ctx context.Context, userID int) ([]model.ScheduledDose, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cloneDoses(d.doses), nil
}

// DosesByDate returns the day's doses ordered by scheduled time.
func (s *Service) DosesByDate(ctx context.Context, userID int, date string) ([]model.ScheduledDose, error) {
	if !wallclock.ValidDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dosesOn(d.doses, date), nil
}

func (s *Service) TodaysDoses(ctx context.Context, userID int) ([]model.ScheduledDose, error) {
	return s.DosesByDate(ctx, userID, s.Today())
}

func (s *Service) DosesExistForDate(ctx context.Context, userID int, date string) (bool, error) {
	doses, err := s.DosesByDate(ctx, userID, date)
	if err != nil {
		return false, err
	}
	return len(doses) > 0, nil
}

// UpdateDoseStatus moves a dose through its state machine. Taking a dose
// stamps ActualTime with the current time; other moves clear it.
func (s *Service) UpdateDoseStatus(ctx context.Context, userID int, id string, status model.DoseStatus) (model.ScheduledDose, error) {
	if !status.Valid() {
		return model.ScheduledDose{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, status)
	}

	s.store.mu.Lock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		s.store.mu.Unlock()
		return model.ScheduledDose{}, err
	}
	i := -1
	for j := range d.doses {
		if d.doses[j].ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		s.store.mu.Unlock()
		return model.ScheduledDose{}, fmt.Errorf("dose %s: %w", id, ErrNotFound)
	}
	from := d.doses[i].Status
	if !CanTransition(from, status) {
		s.store.mu.Unlock()
		return model.ScheduledDose{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, status)
	}

	d.doses[i].Status = status
	d.doses[i].ActualTime = nil
	if status == model.DoseTaken {
		now := s.now()
		d.doses[i].ActualTime = &now
	}
	updated := cloneDose(d.doses[i])
	s.store.saveDoses(userID, d)
	s.store.mu.Unlock()

	s.emit(ctx, notify.Event{
		Type:   notify.EventDoseStatus,
		UserID: userID,
		Date:   updated.Date,
		DoseID: updated.ID,
		Status: string(updated.Status),
	})
	return updated, nil
}

// GenerateResult reports what a generation call did.
type GenerateResult struct {
	Date      string                `json:"date"`
	Generated bool                  `json:"generated"`
	Doses     []model.ScheduledDose `json:"doses"`
}

// GenerateDoses installs the day's doses unless any already exist, in which
// case the existing set is returned untouched. Other dates are never altered.
func (s *Service) GenerateDoses(ctx context.Context, userID int, date string, anchors *model.AnchorTimes, ramadan bool) (GenerateResult, error) {
	return s.generate(ctx, userID, date, anchors, ramadan, false)
}

// RegenerateDoses clears the day first, discarding recorded statuses for it.
func (s *Service) RegenerateDoses(ctx context.Context, userID int, date string, anchors *model.AnchorTimes, ramadan bool) (GenerateResult, error) {
	return s.generate(ctx, userID, date, anchors, ramadan, true)
}

func (s *Service) generate(ctx context.Context, userID int, date string, anchors *model.AnchorTimes, ramadan, replace bool) (GenerateResult, error) {
	if !wallclock.ValidDate(date) {
		return GenerateResult{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	s.store.mu.Lock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		s.store.mu.Unlock()
		return GenerateResult{}, err
	}

	existing := dosesOn(d.doses, date)
	if len(existing) > 0 && !replace {
		s.store.mu.Unlock()
		return GenerateResult{Date: date, Generated: false, Doses: existing}, nil
	}

	generated, err := GenerateDosesForDate(d.medications, anchors, date, ramadan, s.opts.GenerateOptions)
	if err != nil {
		s.store.mu.Unlock()
		return GenerateResult{}, err
	}

	changed := len(generated) > 0 || len(existing) > 0
	if changed {
		d.doses = append(withoutDate(d.doses, date), generated...)
		s.store.saveDoses(userID, d)
	}
	s.store.mu.Unlock()

	if changed {
		s.emit(ctx, notify.Event{Type: notify.EventDosesGenerated, UserID: userID, Date: date, Count: len(generated)})
	}
	return GenerateResult{Date: date, Generated: true, Doses: cloneDoses(generated)}, nil
}

// DeleteDosesByDate removes every dose on date and reports how many went.
func (s *Service) DeleteDosesByDate(ctx context.Context, userID int, date string) (int, error) {
	if !wallclock.ValidDate(date) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	s.store.mu.Lock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		s.store.mu.Unlock()
		return 0, err
	}
	kept := withoutDate(d.doses, date)
	removed := len(d.doses) - len(kept)
	if removed > 0 {
		d.doses = kept
		s.store.saveDoses(userID, d)
	}
	s.store.mu.Unlock()

	if removed > 0 {
		s.emit(ctx, notify.Event{Type: notify.EventDosesCleared, UserID: userID, Date: date, Count: removed})
	}
	return removed, nil
}
