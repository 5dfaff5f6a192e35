package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/riskibarqy/league-sheets/internal/platform/resilience"
	"github.com/riskibarqy/league-sheets/internal/platform/worker"
	"github.com/sourcegraph/conc/panics"
)

const (
	OutcomeFresh = "fresh"
	OutcomeStale = "stale"
	OutcomeMiss  = "miss"

	RefreshOK       = "ok"
	RefreshError    = "error"
	RefreshSkipped  = "skipped"
	RefreshRejected = "rejected"
)

// Entry is one cached result set. Entries are only ever replaced whole.
type Entry[T any] struct {
	Key       string
	Payload   []T
	FetchedAt time.Time
}

// Result is what Query hands back to callers.
type Result[T any] struct {
	Data      []T
	FromCache bool
	FetchedAt time.Time
	Err       error
}

// Fetcher loads the full payload for one key.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Recorder receives cache telemetry.
type Recorder interface {
	CacheLookup(dataset, outcome string)
	CacheRefresh(dataset, result string)
}

type Options struct {
	// Name labels logs and metrics, e.g. "standings".
	Name string
	TTL  time.Duration
	// RefreshTimeout bounds one background refresh. Zero means no extra bound.
	RefreshTimeout time.Duration
	// FetchTimeout bounds the shared fetch behind a cache miss. Zero falls
	// back to RefreshTimeout.
	FetchTimeout time.Duration
	// DedupeRefresh allows a single background refresh per key at a time.
	DedupeRefresh bool
	Runner        worker.Runner
	Logger        *logging.Logger
	Recorder      Recorder
	Now           func() time.Time
}

// Store is a stale-while-revalidate cache keyed by query.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]

	name           string
	ttl            time.Duration
	refreshTimeout time.Duration
	fetchTimeout   time.Duration
	dedupeRefresh  bool
	runner         worker.Runner
	logger         *logging.Logger
	recorder       Recorder
	now            func() time.Time

	flight     resilience.SingleFlight[Entry[T]]
	refreshing resilience.InFlight
}

func NewStore[T any](opts Options) *Store[T] {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	if opts.Runner == nil {
		opts.Runner = worker.Spawn{Logger: logger}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = opts.RefreshTimeout
	}

	return &Store[T]{
		entries:        make(map[string]Entry[T]),
		name:           opts.Name,
		ttl:            opts.TTL,
		refreshTimeout: opts.RefreshTimeout,
		fetchTimeout:   opts.FetchTimeout,
		dedupeRefresh:  opts.DedupeRefresh,
		runner:         opts.Runner,
		logger:         logger.With("cache", opts.Name),
		recorder:       opts.Recorder,
		now:            opts.Now,
	}
}

func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

// Get returns the cached entry for key, fresh or stale.
func (s *Store[T]) Get(key string) (Entry[T], bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry[T]{}, false
	}
	e.Payload = slices.Clone(e.Payload)
	return e, true
}

// Put stores payload under key unless an entry with the same or a newer
// fetch time is already present. It reports whether the entry was written.
func (s *Store[T]) Put(key string, payload []T, fetchedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.entries[key]; ok && !fetchedAt.After(current.FetchedAt) {
		return false
	}
	s.entries[key] = Entry[T]{
		Key:       key,
		Payload:   slices.Clone(payload),
		FetchedAt: fetchedAt,
	}
	return true
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IsStale reports whether an entry fetched at fetchedAt has outlived the TTL.
func (s *Store[T]) IsStale(fetchedAt time.Time) bool {
	return s.now().Sub(fetchedAt) >= s.ttl
}

// Query serves key from cache when possible. A missing entry is fetched
// synchronously; a stale entry is returned as-is while a refresh runs in the
// background. Query never panics and never blocks on the network when an
// entry exists.
func (s *Store[T]) Query(ctx context.Context, key string, fetch Fetcher[T]) Result[T] {
	if entry, ok := s.Get(key); ok {
		if s.IsStale(entry.FetchedAt) {
			s.recorder.CacheLookup(s.name, OutcomeStale)
			s.refreshInBackground(ctx, key, fetch)
		} else {
			s.recorder.CacheLookup(s.name, OutcomeFresh)
		}
		return Result[T]{
			Data:      entry.Payload,
			FromCache: true,
			FetchedAt: entry.FetchedAt,
		}
	}

	s.recorder.CacheLookup(s.name, OutcomeMiss)
	res, err := s.fill(ctx, key, fetch)
	if err != nil {
		return Result[T]{
			Data: []T{},
			Err:  err,
		}
	}

	s.logger.DebugContext(ctx, "cache filled", "key", key, "shared", res.shared, "rows", len(res.entry.Payload))
	return Result[T]{
		Data:      slices.Clone(res.entry.Payload),
		FetchedAt: res.entry.FetchedAt,
	}
}

type fillResult[T any] struct {
	entry  Entry[T]
	err    error
	shared bool
}

// fill joins or starts the shared fetch for key. The fetch runs detached from
// any single caller, so one caller giving up leaves the others waiting on the
// same result. Each caller stops waiting when its own ctx is done.
func (s *Store[T]) fill(ctx context.Context, key string, fetch Fetcher[T]) (fillResult[T], error) {
	done := make(chan fillResult[T], 1)
	go func() {
		entry, err, shared := s.flight.Do(key, func() (Entry[T], error) {
			if cached, ok := s.Get(key); ok {
				return cached, nil
			}
			fetchCtx, cancel := withTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
			defer cancel()
			return s.load(fetchCtx, key, fetch)
		})
		done <- fillResult[T]{entry: entry, err: err, shared: shared}
	}()

	select {
	case res := <-done:
		return res, res.err
	case <-ctx.Done():
		s.logger.DebugContext(ctx, "caller left before cache fill finished", "key", key, "error", ctx.Err())
		return fillResult[T]{}, ctx.Err()
	}
}

func (s *Store[T]) load(ctx context.Context, key string, fetch Fetcher[T]) (Entry[T], error) {
	payload, err := safeFetch(ctx, fetch)
	if err != nil {
		return Entry[T]{}, err
	}
	if payload == nil {
		payload = []T{}
	}

	fetchedAt := s.now()
	s.Put(key, payload, fetchedAt)
	return Entry[T]{Key: key, Payload: payload, FetchedAt: fetchedAt}, nil
}

func (s *Store[T]) refreshInBackground(ctx context.Context, key string, fetch Fetcher[T]) {
	if s.dedupeRefresh && !s.refreshing.TryAcquire(key) {
		s.recorder.CacheRefresh(s.name, RefreshSkipped)
		s.logger.DebugContext(ctx, "background refresh already running", "key", key)
		return
	}

	detached := context.WithoutCancel(ctx)
	err := s.runner.Go(detached, "cache.refresh."+s.name, func(ctx context.Context) {
		if s.dedupeRefresh {
			defer s.refreshing.Release(key)
		}
		ctx, cancel := withTimeout(ctx, s.refreshTimeout)
		defer cancel()

		started := s.now()
		if _, err := s.load(ctx, key, fetch); err != nil {
			s.recorder.CacheRefresh(s.name, RefreshError)
			s.logger.WarnContext(ctx, "background refresh failed, keeping stale entry", "key", key, "error", err)
			return
		}
		s.recorder.CacheRefresh(s.name, RefreshOK)
		s.logger.DebugContext(ctx, "background refresh done", "key", key, "duration", s.now().Sub(started))
	})
	if err != nil {
		if s.dedupeRefresh {
			s.refreshing.Release(key)
		}
		s.recorder.CacheRefresh(s.name, RefreshRejected)
		s.logger.WarnContext(ctx, "background refresh not scheduled", "key", key, "error", err)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func safeFetch[T any](ctx context.Context, fetch Fetcher[T]) (payload []T, err error) {
	if fetch == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	var catcher panics.Catcher
	catcher.Try(func() {
		payload, err = fetch(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return nil, fmt.Errorf("fetcher panicked: %w", recovered.AsError())
	}
	return payload, err
}

type nopRecorder struct{}

func (nopRecorder) CacheLookup(string, string)  {}
func (nopRecorder) CacheRefresh(string, string) {}
