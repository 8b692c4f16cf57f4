package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Nixie-Tech-LLC/iftar/internal/dosemap"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

// maxRangeDays bounds calendar and statistics queries.
const maxRangeDays = 366

func checkRange(from, to string) error {
	f, err := time.Parse(wallclock.DateLayout, from)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, from)
	}
	t, err := time.Parse(wallclock.DateLayout, to)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, to)
	}
	if t.Before(f) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidDate, to, from)
	}
	if t.Sub(f) > maxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: range longer than %d days", ErrInvalidDate, maxRangeDays)
	}
	return nil
}

func countStatuses(doses []model.ScheduledDose) model.DoseStatistics {
	var st model.DoseStatistics
	for _, d := range doses {
		switch d.Status {
		case model.DoseTaken:
			st.Taken++
		case model.DoseMissed:
			st.Missed++
		case model.DosePending:
			st.Pending++
		case model.DoseSkipped:
			st.Skipped++
		}
	}
	return st
}

// DoseStatistics counts doses by status for dates in [from, to].
func (s *Service) DoseStatistics(ctx context.Context, userID int, from, to string) (model.DoseStatistics, error) {
	if err := checkRange(from, to); err != nil {
		return model.DoseStatistics{}, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return model.DoseStatistics{}, err
	}
	in := make([]model.ScheduledDose, 0)
	for _, dose := range d.doses {
		if dose.Date >= from && dose.Date <= to {
			in = append(in, dose)
		}
	}
	return countStatuses(in), nil
}

// ScheduleEntry is a dose joined with its medication.
type ScheduleEntry struct {
	Dose       model.ScheduledDose `json:"dose"`
	Medication model.Medication    `json:"medication"`
	Overdue    bool                `json:"overdue"`
}

type Dashboard struct {
	Date           string          `json:"date"`
	Doses          []ScheduleEntry `json:"todaysDoses"`
	NextDose       *ScheduleEntry  `json:"nextDose"`
	CompletedCount int             `json:"completedCount"`
	PendingCount   int             `json:"pendingCount"`
	MissedCount    int             `json:"missedCount"`
	OverdueCount   int             `json:"overdueCount"`
}

func (s *Service) joinEntries(d *userDocs, doses []model.ScheduledDose, now time.Time) []ScheduleEntry {
	byID := make(map[string]model.Medication, len(d.medications))
	for _, m := range d.medications {
		byID[m.ID] = m
	}
	out := make([]ScheduleEntry, 0, len(doses))
	for _, dose := range doses {
		med, ok := byID[dose.MedicationID]
		if !ok {
			continue
		}
		out = append(out, ScheduleEntry{Dose: dose, Medication: cloneMedication(med), Overdue: dose.Overdue(now)})
	}
	return out
}

// Dashboard summarizes today: joined doses, the next pending dose still ahead
// of now, and counts by status. Overdue is derived, never stored.
func (s *Service) Dashboard(ctx context.Context, userID int) (Dashboard, error) {
	now := s.now()
	date := wallclock.DateOf(now, s.opts.Location)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	today := dosesOn(d.doses, date)
	entries := s.joinEntries(d, today, now)

	out := Dashboard{Date: date, Doses: entries}
	for i := range entries {
		e := entries[i]
		if out.NextDose == nil && e.Dose.Status == model.DosePending && e.Dose.ScheduledTime.After(now) {
			out.NextDose = &e
		}
		if e.Overdue {
			out.OverdueCount++
		}
	}
	counts := countStatuses(today)
	out.CompletedCount = counts.Taken
	out.PendingCount = counts.Pending
	out.MissedCount = counts.Missed
	return out, nil
}

type DayStatus string

const (
	DayAllTaken  DayStatus = "all-taken"
	DayHasMissed DayStatus = "has-missed"
	DayPending   DayStatus = "pending"
	DayNone      DayStatus = "none"
)

func dayStatus(doses []model.ScheduledDose) DayStatus {
	if len(doses) == 0 {
		return DayNone
	}
	done := true
	for _, d := range doses {
		if d.Status == model.DoseMissed {
			return DayHasMissed
		}
		if d.Status != model.DoseTaken && d.Status != model.DoseSkipped {
			done = false
		}
	}
	if done {
		return DayAllTaken
	}
	return DayPending
}

type CalendarDay struct {
	Date   string                `json:"date"`
	Status DayStatus             `json:"status"`
	Stats  model.DoseStatistics  `json:"stats"`
	Doses  []model.ScheduledDose `json:"doses"`
}

// Calendar returns one entry per date in [from, to], empty days included.
func (s *Service) Calendar(ctx context.Context, userID int, from, to string) ([]CalendarDay, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]model.ScheduledDose)
	for _, dose := range d.doses {
		if dose.Date >= from && dose.Date <= to {
			byDate[dose.Date] = append(byDate[dose.Date], cloneDose(dose))
		}
	}

	out := make([]CalendarDay, 0)
	for date := from; date <= to; {
		doses := byDate[date]
		if doses == nil {
			doses = []model.ScheduledDose{}
		}
		sortByTime(doses)
		out = append(out, CalendarDay{Date: date, Status: dayStatus(doses), Stats: countStatuses(doses), Doses: doses})
		next, err := wallclock.NextDate(date)
		if err != nil {
			return nil, err
		}
		date = next
	}
	return out, nil
}

// Reminder is a pending dose inside its pre-alert window.
type Reminder struct {
	ScheduleEntry
	AlertAt time.Time `json:"alertAt"`
}

// DueReminders lists today's pending doses whose pre-alert time has arrived
// but whose scheduled time has not. Nothing is returned when notifications
// are off.
func (s *Service) DueReminders(ctx context.Context, userID int) ([]Reminder, error) {
	now := s.now()
	date := wallclock.DateOf(now, s.opts.Location)

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Reminder, 0)
	if !d.settings.NotificationsEnabled {
		return out, nil
	}
	lead := time.Duration(d.settings.PreAlertMinutes) * time.Minute
	for _, e := range s.joinEntries(d, dosesOn(d.doses, date), now) {
		if e.Dose.Status != model.DosePending {
			continue
		}
		alertAt := e.Dose.ScheduledTime.Add(-lead)
		if !now.Before(alertAt) && now.Before(e.Dose.ScheduledTime) {
			out = append(out, Reminder{ScheduleEntry: e, AlertAt: alertAt})
		}
	}
	return out, nil
}

// MedicationWarnings returns the advisory text for a medication under the
// user's current mode. Anchor lookup failures fall back to the standard table.
func (s *Service) MedicationWarnings(ctx context.Context, userID int, id string) ([]string, error) {
	med, err := s.GetMedication(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	var anchors *model.AnchorTimes
	if st.RamadanMode {
		if a, err := s.resolveFor(ctx, st, s.Today()); err == nil {
			anchors = a
		}
	}
	return dosemap.Warnings(med, anchors, st.RamadanMode, s.opts.suhoorOffset()), nil
}

// History is the exported document.
type History struct {
	ExportedAt  time.Time             `json:"exportedAt"`
	From        string                `json:"from"`
	To          string                `json:"to"`
	Medications []model.Medication    `json:"medications"`
	Doses       []model.ScheduledDose `json:"doses"`
	Stats       model.DoseStatistics  `json:"stats"`
}

// BuildHistory collects medications and the doses in [from, to].
func (s *Service) BuildHistory(ctx context.Context, userID int, from, to string) (History, error) {
	if err := checkRange(from, to); err != nil {
		return History{}, err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return History{}, err
	}
	doses := make([]model.ScheduledDose, 0)
	for _, dose := range d.doses {
		if dose.Date >= from && dose.Date <= to {
			doses = append(doses, cloneDose(dose))
		}
	}
	sortByTime(doses)
	return History{
		ExportedAt:  s.now(),
		From:        from,
		To:          to,
		Medications: cloneMedications(d.medications),
		Doses:       doses,
		Stats:       countStatuses(doses),
	}, nil
}

// ExportHistory writes the history as JSON to the export storage and returns
// its location.
func (s *Service) ExportHistory(ctx context.Context, userID int, from, to string) (string, error) {
	if s.exports == nil {
		return "", ErrExportDisabled
	}
	h, err := s.BuildHistory(ctx, userID, from, to)
	if err != nil {
		return "", err
	}
	body, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	name := fmt.Sprintf("dose-history-%d-%s-%s.json", userID, from, to)
	return s.exports.Save(ctx, name, "application/json", body)
}
