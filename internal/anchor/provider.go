// Package anchor resolves the daily prayer timetable that fasting-mode
// scheduling hangs off. Lookups go through an in-memory tier, an optional
// durable kv tier, and finally the network.
package anchor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/kv"
	"github.com/Nixie-Tech-LLC/iftar/internal/model"
	"github.com/Nixie-Tech-LLC/iftar/internal/wallclock"
)

// DurablePrefix namespaces anchor entries inside a shared kv.Store.
const DurablePrefix = "prayer_times:"

var (
	// ErrUnavailable means no tier could produce anchors for the request.
	ErrUnavailable = errors.New("anchor: no anchors available")

	ErrUnknownMethod = errors.New("anchor: unknown calculation method")
)

// Fetcher retrieves a timetable from the network. method is the provider's
// numeric method code.
type Fetcher interface {
	Timings(ctx context.Context, date string, lat, lng float64, method int) (*model.AnchorTimes, error)
}

// Resolver is what schedulers depend on.
type Resolver interface {
	Fetch(ctx context.Context, lat, lng float64, method model.CalculationMethod, date string) (*model.AnchorTimes, error)
}

type Options struct {
	// Timeout bounds a single network attempt.
	Timeout time.Duration
	// Backoff is the pause before the one retry.
	Backoff time.Duration
	// PrefetchTimeout bounds the detached next-day warmup.
	PrefetchTimeout time.Duration
	// Location decides what "today" is when no date is given.
	Location *time.Location
	// DisablePrefetch turns off the next-day warmup.
	DisablePrefetch bool
}

func DefaultOptions() Options {
	return Options{
		Timeout:         5 * time.Second,
		Backoff:         time.Second,
		PrefetchTimeout: 15 * time.Second,
		Location:        time.Local,
	}
}

type Provider struct {
	fetcher Fetcher
	cache   *Cache
	durable kv.Store
	opts    Options
}

var _ Resolver = (*Provider)(nil)

// NewProvider wires the tiers together. durable may be nil.
func NewProvider(fetcher Fetcher, cache *Cache, durable kv.Store, opts Options) *Provider {
	if cache == nil {
		cache = NewCache()
	}
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	if opts.PrefetchTimeout <= 0 {
		opts.PrefetchTimeout = def.PrefetchTimeout
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	return &Provider{fetcher: fetcher, cache: cache, durable: durable, opts: opts}
}

// Fetch returns the anchors for the coordinate on date (today when empty).
// When every tier misses and the network fails, the error wraps ErrUnavailable.
func (p *Provider) Fetch(ctx context.Context, lat, lng float64, method model.CalculationMethod, date string) (*model.AnchorTimes, error) {
	return p.resolve(ctx, lat, lng, method, date, !p.opts.DisablePrefetch)
}

func (p *Provider) resolve(ctx context.Context, lat, lng float64, method model.CalculationMethod, date string, prefetch bool) (*model.AnchorTimes, error) {
	code, ok := method.Code()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if date == "" {
		date = wallclock.Today(p.opts.Location)
	}
	key := Key(lat, lng, method, date)

	if e, ok := p.cache.get(key); ok {
		log.Debug().Str("key", key).Msg("anchor cache hit")
		return clone(e.Anchors), nil
	}

	sfx := suffix(method, date)
	if e, ok := p.cache.nearest(sfx, lat, lng); ok {
		log.Debug().Str("key", key).Float64("source_lat", e.SourceLat).Float64("source_lng", e.SourceLng).Msg("anchor fuzzy memory hit")
		p.promote(ctx, key, e.promoted(lat, lng))
		return clone(e.Anchors), nil
	}
	if e, ok := p.durableGet(ctx, key); ok {
		p.cache.put(key, e)
		return clone(e.Anchors), nil
	}
	if e, ok := p.durableNearest(ctx, sfx, lat, lng); ok {
		log.Debug().Str("key", key).Float64("source_lat", e.SourceLat).Float64("source_lng", e.SourceLng).Msg("anchor fuzzy durable hit")
		p.promote(ctx, key, e.promoted(lat, lng))
		return clone(e.Anchors), nil
	}

	anchors, err := p.fetchWithRetry(ctx, lat, lng, code, date)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to fetch anchor times")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	anchors.Date = date
	p.promote(ctx, key, fetched(lat, lng, *anchors))

	if prefetch {
		p.prefetchNext(lat, lng, method, date)
	}
	return clone(*anchors), nil
}

// promote stores e under the exact key in both tiers.
func (p *Provider) promote(ctx context.Context, key string, e entry) {
	p.cache.put(key, e)
	if p.durable == nil {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to encode anchor entry")
		return
	}
	if err := p.durable.Set(ctx, DurablePrefix+key, string(raw)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("durable anchor write failed")
	}
}

func (p *Provider) durableGet(ctx context.Context, key string) (entry, bool) {
	if p.durable == nil {
		return entry{}, false
	}
	raw, err := p.durable.Get(ctx, DurablePrefix+key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn().Err(err).Str("key", key).Msg("durable anchor read failed")
		}
		return entry{}, false
	}
	return decodeEntry(raw)
}

func (p *Provider) durableNearest(ctx context.Context, sfx string, lat, lng float64) (entry, bool) {
	if p.durable == nil {
		return entry{}, false
	}
	keys, err := kv.KeysWithSuffix(ctx, p.durable, DurablePrefix, sfx)
	if err != nil {
		log.Warn().Err(err).Msg("durable anchor scan failed")
		return entry{}, false
	}
	for _, k := range keys {
		raw, err := p.durable.Get(ctx, k)
		if err != nil {
			continue
		}
		if e, ok := decodeEntry(raw); ok && e.near(lat, lng) {
			return e, true
		}
	}
	return entry{}, false
}

func decodeEntry(raw string) (entry, bool) {
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return entry{}, false
	}
	if !e.Anchors.Complete() {
		return entry{}, false
	}
	if e.SourceLat == 0 && e.SourceLng == 0 {
		// written before sources were recorded
		e.SourceLat, e.SourceLng = e.Latitude, e.Longitude
	}
	return e, true
}

type retryable interface {
	Retryable() bool
}

func (p *Provider) fetchWithRetry(ctx context.Context, lat, lng float64, code int, date string) (*model.AnchorTimes, error) {
	const attempts = 2
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		a, err := p.attempt(ctx, lat, lng, code, date)
		if err == nil {
			return a, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Str("date", date).Msg("anchor fetch attempt failed")

		var r retryable
		if errors.As(err, &r) && !r.Retryable() {
			break
		}
		if attempt == attempts || ctx.Err() != nil {
			break
		}
		timer := time.NewTimer(p.opts.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w (after: %w)", ctx.Err(), lastErr)
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (p *Provider) attempt(ctx context.Context, lat, lng float64, code int, date string) (*model.AnchorTimes, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()
	a, err := p.fetcher.Timings(ctx, date, lat, lng, code)
	if err != nil {
		return nil, err
	}
	if !a.Complete() {
		return nil, fmt.Errorf("anchor: incomplete timetable for %s", date)
	}
	return a, nil
}

// prefetchNext warms the cache for the following day on a detached goroutine.
// Nothing waits for it and its errors are dropped.
func (p *Provider) prefetchNext(lat, lng float64, method model.CalculationMethod, date string) {
	next, err := wallclock.NextDate(date)
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.opts.PrefetchTimeout)
		defer cancel()
		if _, err := p.resolve(ctx, lat, lng, method, next, false); err != nil {
			log.Debug().Err(err).Str("date", next).Msg("anchor prefetch failed")
		}
	}()
}

func clone(a model.AnchorTimes) *model.AnchorTimes {
	return &a
}
