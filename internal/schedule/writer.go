package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
)

// writer persists documents on a single goroutine. Writes to the same key
// coalesce; distinct keys are written in first-enqueued order.
type writer struct {
	backend kv.Store
	timeout time.Duration

	mu      sync.Mutex
	order   []string
	pending map[string]string
	busy    bool
	idle    chan struct{}
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newWriter(backend kv.Store, timeout time.Duration) *writer {
	idle := make(chan struct{})
	close(idle)
	w := &writer{
		backend: backend,
		timeout: timeout,
		pending: make(map[string]string),
		idle:    idle,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue schedules key=value. It never blocks on I/O.
func (w *writer) enqueue(key, value string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		log.Error().Str("key", key).Msg("document write after close dropped")
		return
	}
	if _, ok := w.pending[key]; !ok {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	if !w.busy {
		w.busy = true
		w.idle = make(chan struct{})
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		if len(w.order) == 0 {
			if w.busy {
				w.busy = false
				close(w.idle)
			}
			w.mu.Unlock()
			return
		}
		batch, values := w.order, w.pending
		w.order, w.pending = nil, make(map[string]string)
		w.mu.Unlock()

		for _, key := range batch {
			ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
			if err := w.backend.Set(ctx, key, values[key]); err != nil {
				log.Error().Err(err).Str("key", key).Msg("failed to persist document")
			}
			cancel()
		}
	}
}

// flush waits until everything enqueued so far has been attempted.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	idle := w.idle
	w.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close drains the queue and stops the goroutine.
func (w *writer) close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
		<-w.done
	})
}
