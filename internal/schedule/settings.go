package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/anchor"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

// SettingsPatch is a partial settings update. ClearLocation removes a stored
// location and wins over Location.
type SettingsPatch struct {
	CalculationMethod    *model.CalculationMethod
	PreAlertMinutes      *int
	SuhoorAlertMinutes   *int
	NotificationsEnabled *bool
	Location             *model.Location
	ClearLocation        bool
	RamadanMode          *bool
}

const maxAlertMinutes = 24 * 60

func validateSettings(st model.Settings) error {
	if !st.CalculationMethod.Valid() {
		return fmt.Errorf("%w: unknown calculation method %q", ErrInvalidSettings, st.CalculationMethod)
	}
	if st.PreAlertMinutes < 0 || st.PreAlertMinutes > maxAlertMinutes {
		return fmt.Errorf("%w: preAlertMinutes out of range", ErrInvalidSettings)
	}
	if st.SuhoorAlertMinutes < 0 || st.SuhoorAlertMinutes > maxAlertMinutes {
		return fmt.Errorf("%w: suhoorAlertMinutes out of range", ErrInvalidSettings)
	}
	if l := st.Location; l != nil {
		if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
			return fmt.Errorf("%w: coordinates out of range", ErrInvalidSettings)
		}
	}
	return nil
}

func cloneSettings(st model.Settings) model.Settings {
	if st.Location != nil {
		l := *st.Location
		st.Location = &l
	}
	return st
}

func (s *Service) GetSettings(ctx context.Context, userID int) (model.Settings, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return model.Settings{}, err
	}
	return cloneSettings(d.settings), nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID int, patch SettingsPatch) (model.Settings, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	d, err := s.store.docs(ctx, userID)
	if err != nil {
		return model.Settings{}, err
	}

	st := cloneSettings(d.settings)
	if patch.CalculationMethod != nil {
		st.CalculationMethod = *patch.CalculationMethod
	}
	if patch.PreAlertMinutes != nil {
		st.PreAlertMinutes = *patch.PreAlertMinutes
	}
	if patch.SuhoorAlertMinutes != nil {
		st.SuhoorAlertMinutes = *patch.SuhoorAlertMinutes
	}
	if patch.NotificationsEnabled != nil {
		st.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.Location != nil {
		l := *patch.Location
		st.Location = &l
	}
	if patch.ClearLocation {
		st.Location = nil
	}
	if patch.RamadanMode != nil {
		st.RamadanMode = *patch.RamadanMode
	}
	if err := validateSettings(st); err != nil {
		return model.Settings{}, err
	}

	d.settings = st
	s.store.saveSettings(userID, d)
	return cloneSettings(st), nil
}

// ResolveAnchors looks up the timetable for the user's saved location and
// method. An empty date means today.
func (s *Service) ResolveAnchors(ctx context.Context, userID int, date string) (*model.AnchorTimes, error) {
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = s.Today()
	}
	return s.resolveFor(ctx, st, date)
}

func (s *Service) resolveFor(ctx context.Context, st model.Settings, date string) (*model.AnchorTimes, error) {
	if st.Location == nil {
		return nil, ErrNoLocation
	}
	if s.anchors == nil {
		return nil, anchor.ErrUnavailable
	}
	return s.anchors.Fetch(ctx, st.Location.Latitude, st.Location.Longitude, st.CalculationMethod, date)
}

// RefreshResult describes a RefreshToday call.
type RefreshResult struct {
	GenerateResult
	Anchors *model.AnchorTimes `json:"anchors"`
	Ramadan bool               `json:"isRamadanMode"`
}

// RefreshToday generates today's doses from the user's settings. In fasting
// mode without anchors nothing is generated and the anchor error is returned,
// so the day is not locked to fixed clock times; the caller may retry.
func (s *Service) RefreshToday(ctx context.Context, userID int) (RefreshResult, error) {
	st, err := s.GetSettings(ctx, userID)
	if err != nil {
		return RefreshResult{}, err
	}
	date := s.Today()
	res := RefreshResult{Ramadan: st.RamadanMode}

	if st.RamadanMode {
		anchors, err := s.resolveFor(ctx, st, date)
		if err != nil {
			log.Warn().Err(err).Int("user_id", userID).Str("date", date).Msg("cannot resolve anchors for today")
			return res, err
		}
		res.Anchors = anchors
	}

	gen, err := s.GenerateDoses(ctx, userID, date, res.Anchors, st.RamadanMode)
	if err != nil {
		return res, err
	}
	res.GenerateResult = gen
	return res, nil
}

// IsAnchorUnavailable reports whether err means fasting-mode scheduling is
// impossible right now, as opposed to a hard failure.
func IsAnchorUnavailable(err error) bool {
	return errors.Is(err, anchor.ErrUnavailable) || errors.Is(err, ErrNoLocation)
}
