package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
)

// countingKV records every Set and can be told to fail them.
type countingKV struct {
	*kv.Memory
	mu   sync.Mutex
	sets []string
	fail bool
}

func newCountingKV() *countingKV {
	return &countingKV{Memory: kv.NewMemory()}
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.sets = append(c.sets, key)
	fail := c.fail
	c.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return c.Memory.Set(ctx, key, value)
}

func (c *countingKV) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets)
}

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func TestStore_PersistsSealedAndReloads(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	c := testCipher(t)
	s := NewStore(backend, c)
	defer s.Close()

	s.mu.Lock()
	d, err := s.docs(ctx, 1)
	require.NoError(t, err)
	d.medications = append(d.medications, model.Medication{ID: "m1", Name: "Metformin"})
	s.saveMedications(1, d)
	s.mu.Unlock()
	flush(t, s)

	raw, err := backend.Get(ctx, medicationsKey(1))
	require.NoError(t, err)
	assert.NotContains(t, raw, "Metformin")

	s.Evict(1)
	s.mu.Lock()
	d, err = s.docs(ctx, 1)
	s.mu.Unlock()
	require.NoError(t, err)
	require.Len(t, d.medications, 1)
	assert.Equal(t, "Metformin", d.medications[0].Name)
	assert.Equal(t, model.DefaultSettings(), d.settings)
}

func TestStore_LegacyPlaintextIsResealed(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, medicationsKey(2), `[{"id":"old","name":"Aspirin"}]`))

	s := NewStore(backend, testCipher(t))
	defer s.Close()

	s.mu.Lock()
	d, err := s.docs(ctx, 2)
	s.mu.Unlock()
	require.NoError(t, err)
	require.Len(t, d.medications, 1)
	assert.Equal(t, "Aspirin", d.medications[0].Name)

	flush(t, s)
	raw, err := backend.Get(ctx, medicationsKey(2))
	require.NoError(t, err)
	assert.NotContains(t, raw, "Aspirin")
}

func TestStore_CorruptDocumentsReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, dosesKey(3), "garbage"))
	require.NoError(t, backend.Set(ctx, settingsKey(3), "{"))

	s := NewStore(backend, testCipher(t))
	defer s.Close()

	s.mu.Lock()
	d, err := s.docs(ctx, 3)
	s.mu.Unlock()
	require.NoError(t, err)
	assert.NotNil(t, d.doses)
	assert.Empty(t, d.doses)
	assert.Equal(t, model.DefaultSettings(), d.settings)
}

// gatedKV signals entered and then blocks every Set until gate is closed.
type gatedKV struct {
	*countingKV
	entered chan string
	gate    chan struct{}
}

func (g *gatedKV) Set(ctx context.Context, key, value string) error {
	select {
	case g.entered <- key:
	default:
	}
	<-g.gate
	return g.countingKV.Set(ctx, key, value)
}

func TestStore_WritesCoalescePerKey(t *testing.T) {
	backend := &gatedKV{countingKV: newCountingKV(), entered: make(chan string, 1), gate: make(chan struct{})}
	s := NewStore(backend, nil)
	defer s.Close()

	s.w.enqueue("a", "1")
	require.Equal(t, "a", <-backend.entered)
	s.w.enqueue("b", "1")
	s.w.enqueue("b", "2")
	s.w.enqueue("b", "3")
	close(backend.gate)
	flush(t, s)

	v, err := backend.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []string{"a", "b"}, backend.sets)
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	backend := newCountingKV()
	backend.fail = true
	s := NewStore(backend, nil)
	defer s.Close()

	s.mu.Lock()
	d, err := s.docs(ctx, 1)
	require.NoError(t, err)
	d.medications = append(d.medications, model.Medication{ID: "m1"})
	s.saveMedications(1, d)
	s.mu.Unlock()
	flush(t, s)

	assert.Equal(t, 1, backend.setCount())
	s.mu.Lock()
	d, err = s.docs(ctx, 1)
	s.mu.Unlock()
	require.NoError(t, err)
	assert.Len(t, d.medications, 1)
}

func TestStore_CloseDrains(t *testing.T) {
	backend := kv.NewMemory()
	s := NewStore(backend, nil)
	s.persist("settings:9", model.DefaultSettings())
	s.Close()
	s.Close()

	_, err := backend.Get(context.Background(), "settings:9")
	assert.NoError(t, err)

	s.persist("settings:10", model.DefaultSettings())
	_, err = backend.Get(context.Background(), "settings:10")
	assert.ErrorIs(t, err, kv.ErrNotFound, "writes after close are dropped")
}

type brokenKV struct{ kv.Store }

func (brokenKV) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestStore_BackendReadErrorSurfaces(t *testing.T) {
	s := NewStore(brokenKV{}, nil)
	defer s.Close()
	s.mu.Lock()
	_, err := s.docs(context.Background(), 1)
	s.mu.Unlock()
	assert.Error(t, err)
}
