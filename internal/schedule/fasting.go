package schedule

import (
	"context"

	"github.com/Nixie-Tech-LLC/iftar/internal/anchor"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

// FastingStatus is a day's anchors with the derived fasting boundaries. The
// live fields are only set when the date is today.
type FastingStatus struct {
	Anchors           model.AnchorTimes `json:"anchors"`
	Iftar             string            `json:"iftar"`
	SuhoorEnd         string            `json:"suhoorEnd"`
	RecommendedSuhoor string            `json:"recommendedSuhoor"`
	Fasting           *bool             `json:"isFasting,omitempty"`
	MinutesToIftar    *int              `json:"minutesToIftar,omitempty"`
	MinutesToSuhoor   *int              `json:"minutesToSuhoorEnd,omitempty"`
}

// FastingStatus resolves the anchors for date (empty means today) and derives
// iftar, suhoor end and the recommended suhoor time.
func (s *Service) FastingStatus(ctx context.Context, userID int, date string) (FastingStatus, error) {
	today := s.Today()
	if date == "" {
		date = today
	}
	a, err := s.ResolveAnchors(ctx, userID, date)
	if err != nil {
		return FastingStatus{}, err
	}

	out := FastingStatus{
		Anchors:           *a,
		Iftar:             anchor.IftarTime(*a),
		SuhoorEnd:         anchor.SuhoorEndTime(*a),
		RecommendedSuhoor: anchor.RecommendedSuhoorTime(*a, s.opts.suhoorOffset()),
	}
	if date != today {
		return out, nil
	}

	now := s.now()
	fasting := anchor.IsDuringFastingHours(*a, now)
	out.Fasting = &fasting
	if d, ok := anchor.TimeUntilIftar(*a, now); ok {
		m := int(d.Minutes())
		out.MinutesToIftar = &m
	}
	if d, ok := anchor.TimeUntilSuhoorEnds(*a, now); ok {
		m := int(d.Minutes())
		out.MinutesToSuhoor = &m
	}
	return out, nil
}
