package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/notify"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

func validateMedication(m model.Medication) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMedication)
	}
	if !m.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidMedication, m.Frequency)
	}
	if !m.TimePreference.Valid() {
		return fmt.Errorf("%w: unknown time preference %q", ErrInvalidMedication, m.TimePreference)
	}
	if m.Frequency == model.FrequencyCustom && len(m.CustomTimes) == 0 {
		return fmt.Errorf("%w: custom frequency needs at least one time", ErrInvalidMedication)
	}
	for _, t := range m.CustomTimes {
		if !wallclock.Valid(t) {
			return fmt.Errorf("%w: custom time %q is not HH:MM", ErrInvalidMedication, t)
		}
	}
	return nil
}

func cloneMedication(m model.Medication) model.Medication {
	if m.CustomTimes != nil {
		m.CustomTimes = append([]string(nil), m.CustomTimes...)
	}
	return m
}

func cloneMedications(in []model.Medication) []model.Medication {
	out := make([]model.Medication, len(in))
	for i, m := range in {
		out[i] = cloneMedication(m)
	}
	return out
}

func indexOfMedication(meds []model.Medication, id string) int {
	for i := range meds {
		if meds[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) CreateMedication(ctx context.Context, userID int, in model.MedicationInput) (model.Medication, error) {
	now := s.now()
	med := model.Medication{
		ID:             s.opts.NewID(),
		Name:           strings.TrimSpace(in.Name),
		Dosage:         in.Dosage,
		Frequency:      in.Frequency,
		TimePreference: in.TimePreference,
		WithFood:       in.WithFood,
		CustomTimes:    append([]string(nil), in.CustomTimes...),
		PillColor:      in.PillColor,
		PillShape:      in.PillShape,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if med.Frequency != model.FrequencyCustom {
		med.CustomTimes = nil
	}
	if err := validateMedication(med); err != nil {
		return model.Medication{}, err
	}

	s.store.mu.Lock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		s.store.mu.Unlock()
		return model.Medication{}, err
	}
	d.medications = append(d.medications, med)
	s.store.saveMedications(userID, d)
	s.store.mu.Unlock()

	s.emit(ctx, notify.Event{Type: notify.EventMedicationAdded, UserID: userID})
	return cloneMedication(med), nil
}

func (s *Service) ListMedications(ctx context.Context, userID int) ([]model.Medication, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cloneMedications(d.medications), nil
}

func (s *Service) GetMedication(ctx context.Context, userID int, id string) (model.Medication, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return model.Medication{}, err
	}
	i := indexOfMedication(d.medications, id)
	if i < 0 {
		return model.Medication{}, fmt.Errorf("medication %s: %w", id, ErrNotFound)
	}
	return cloneMedication(d.medications[i]), nil
}

// UpdateMedication applies the non-nil fields of patch. Existing doses keep
// their times until the day is regenerated.
func (s *Service) UpdateMedication(ctx context.Context, userID int, id string, patch model.MedicationPatch) (model.Medication, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return model.Medication{}, err
	}
	i := indexOfMedication(d.medications, id)
	if i < 0 {
		return model.Medication{}, fmt.Errorf("medication %s: %w", id, ErrNotFound)
	}

	med := cloneMedication(d.medications[i])
	applyPatch(&med, patch)
	if med.Frequency != model.FrequencyCustom {
		med.CustomTimes = nil
	}
	if err := validateMedication(med); err != nil {
		return model.Medication{}, err
	}
	med.UpdatedAt = s.now()

	d.medications[i] = med
	s.store.saveMedications(userID, d)
	return cloneMedication(med), nil
}

func applyPatch(m *model.Medication, p model.MedicationPatch) {
	if p.Name != nil {
		m.Name = strings.TrimSpace(*p.Name)
	}
	if p.Dosage != nil {
		m.Dosage = *p.Dosage
	}
	if p.Frequency != nil {
		m.Frequency = *p.Frequency
	}
	if p.TimePreference != nil {
		m.TimePreference = *p.TimePreference
	}
	if p.WithFood != nil {
		m.WithFood = *p.WithFood
	}
	if p.CustomTimes != nil {
		m.CustomTimes = append([]string(nil), (*p.CustomTimes)...)
	}
	if p.PillColor != nil {
		m.PillColor = *p.PillColor
	}
	if p.PillShape != nil {
		m.PillShape = *p.PillShape
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
}

// DeleteMedication removes the medication and every dose that references it.
func (s *Service) DeleteMedication(ctx context.Context, userID int, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return err
	}
	i := indexOfMedication(d.medications, id)
	if i < 0 {
		return fmt.Errorf("medication %s: %w", id, ErrNotFound)
	}
	d.medications = append(d.medications[:i:i], d.medications[i+1:]...)

	kept := make([]model.ScheduledDose, 0, len(d.doses))
	for _, dose := range d.doses {
		if dose.MedicationID != id {
			kept = append(kept, dose)
		}
	}
	removed := len(d.doses) - len(kept)
	d.doses = kept

	s.store.saveMedications(userID, d)
	if removed > 0 {
		s.store.saveDoses(userID, d)
	}
	return nil
}
