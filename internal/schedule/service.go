package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/anchor"
	"github.com/Nixie-Tech-LLC/iftar/internal/notify"
	"github.com/Nixie-Tech-LLC/iftar/internal/storage"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid dose status transition")
	ErrInvalidMedication = errors.New("invalid medication")
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNoLocation        = errors.New("no location configured")
	ErrExportDisabled    = errors.New("export storage not configured")
)

type Options struct {
	GenerateOptions
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// NewID mints medication IDs. Defaults to random UUIDs.
	NewID func() string
}

// Service is the per-user scheduling API. All methods are safe for concurrent
// use; each call runs to completion under the store's lock.
type Service struct {
	store    *Store
	anchors  anchor.Resolver
	notifier notify.Notifier
	exports  storage.Storage
	opts     Options
}

// NewService wires the collaborators. anchors, notifier and exports may be nil.
func NewService(store *Store, anchors anchor.Resolver, notifier notify.Notifier, exports storage.Storage, opts Options) *Service {
	opts.GenerateOptions = opts.GenerateOptions.withDefaults()
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{store: store, anchors: anchors, notifier: notifier, exports: exports, opts: opts}
}

func (s *Service) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// Today is the current ISO date in the service's location.
func (s *Service) Today() string {
	return wallclock.DateOf(s.opts.Now(), s.opts.Location)
}

// emit publishes ev and only logs failures; events are advisory.
func (s *Service) emit(ctx context.Context, ev notify.Event) {
	ev.At = s.now()
	if err := s.notifier.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("type", string(ev.Type)).Int("user_id", ev.UserID).Msg("failed to publish event")
	}
}

// Flush waits for queued document writes.
func (s *Service) Flush(ctx context.Context) error {
	return s.store.Flush(ctx)
}

// Now is the service clock in the scheduling location.
func (s *Service) Now() time.Time {
	return s.now()
}
