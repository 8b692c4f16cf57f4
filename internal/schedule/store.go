package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/secure"
)

func medicationsKey(userID int) string { return fmt.Sprintf("medications:%d", userID) }
func dosesKey(userID int) string       { return fmt.Sprintf("doses:%d", userID) }
func settingsKey(userID int) string    { return fmt.Sprintf("settings:%d", userID) }

// userDocs is the in-memory snapshot of one user's documents. It is the source
// of truth once loaded; the backend trails behind through the writer.
type userDocs struct {
	medications []model.Medication
	doses       []model.ScheduledDose
	settings    model.Settings
}

// Store holds per-user documents in memory and persists them, sealed, to a
// kv.Store. Mutations apply to memory immediately and are written in the
// background; a failed write is logged and not rolled back.
type Store struct {
	backend kv.Store
	cipher  secure.Cipher
	w       *writer

	mu    sync.Mutex
	users map[int]*userDocs
}

// NewStore starts the background writer. cipher may be nil to store plain JSON.
func NewStore(backend kv.Store, cipher secure.Cipher) *Store {
	return &Store{
		backend: backend,
		cipher:  cipher,
		w:       newWriter(backend, 10*time.Second),
		users:   make(map[int]*userDocs),
	}
}

// docs returns the user's snapshot, loading it on first use. Callers hold s.mu.
func (s *Store) docs(ctx context.Context, userID int) (*userDocs, error) {
	if d, ok := s.users[userID]; ok {
		return d, nil
	}

	meds, err := loadDocument[[]model.Medication](ctx, s, medicationsKey(userID))
	if err != nil {
		return nil, err
	}
	doses, err := loadDocument[[]model.ScheduledDose](ctx, s, dosesKey(userID))
	if err != nil {
		return nil, err
	}
	settings, err := loadDocument[*model.Settings](ctx, s, settingsKey(userID))
	if err != nil {
		return nil, err
	}

	d := &userDocs{
		medications: meds,
		doses:       doses,
		settings:    model.DefaultSettings(),
	}
	if d.medications == nil {
		d.medications = []model.Medication{}
	}
	if d.doses == nil {
		d.doses = []model.ScheduledDose{}
	}
	if settings != nil {
		d.settings = *settings
	}
	s.users[userID] = d
	return d, nil
}

// loadDocument reads and decodes one key. Only backend failures are errors;
// a corrupt document reads as empty.
func loadDocument[T any](ctx context.Context, s *Store, key string) (T, error) {
	var zero T
	raw, err := s.backend.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return zero, nil
	}
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to load document")
		return zero, fmt.Errorf("load %s: %w", key, err)
	}

	v, how := decodeDocument[T](s.cipher, raw)
	switch how {
	case Corrupt:
		log.Warn().Str("key", key).Msg("corrupt document treated as empty")
	case LegacyPlaintext:
		if s.cipher != nil {
			log.Info().Str("key", key).Msg("re-sealing legacy plaintext document")
			s.persist(key, v)
		}
	}
	return v, nil
}

func (s *Store) persist(key string, v any) {
	sealed, err := encodeDocument(s.cipher, v)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode document")
		return
	}
	s.w.enqueue(key, sealed)
}

func (s *Store) saveMedications(userID int, d *userDocs) {
	s.persist(medicationsKey(userID), d.medications)
}

func (s *Store) saveDoses(userID int, d *userDocs) {
	s.persist(dosesKey(userID), d.doses)
}

func (s *Store) saveSettings(userID int, d *userDocs) {
	s.persist(settingsKey(userID), d.settings)
}

// Evict drops a user's snapshot so the next access reloads from the backend.
// Pending writes are not awaited; Flush first when they matter.
func (s *Store) Evict(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

// Flush blocks until queued writes have been attempted or ctx ends.
func (s *Store) Flush(ctx context.Context) error {
	return s.w.flush(ctx)
}

// Close drains pending writes and stops the writer.
func (s *Store) Close() {
	s.w.close()
}
