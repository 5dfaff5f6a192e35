package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/riskibarqy/league-sheets/internal/platform/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingRecorder struct {
	mu        sync.Mutex
	lookups   map[string]int
	refreshes map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{lookups: map[string]int{}, refreshes: map[string]int{}}
}

func (r *countingRecorder) CacheLookup(_, outcome string) {
	r.mu.Lock()
	r.lookups[outcome]++
	r.mu.Unlock()
}

func (r *countingRecorder) CacheRefresh(_, result string) {
	r.mu.Lock()
	r.refreshes[result]++
	r.mu.Unlock()
}

func (r *countingRecorder) refreshCount(result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes[result]
}

const testTTL = 30 * time.Minute

func newInlineStore(clock *fakeClock, recorder Recorder) *Store[string] {
	return NewStore[string](Options{
		Name:     "standings",
		TTL:      testTTL,
		Runner:   worker.Inline{Logger: logging.NewNop()},
		Logger:   logging.NewNop(),
		Recorder: recorder,
		Now:      clock.Now,
	})
}

func TestStore_Query_MissFetchesSynchronously(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := newInlineStore(clock, nil)

	res := store.Query(context.Background(), "standings:majors", func(context.Context) ([]string, error) {
		return []string{"Acid Esports", "MNML"}, nil
	})

	require.NoError(t, res.Err)
	assert.False(t, res.FromCache)
	assert.Equal(t, []string{"Acid Esports", "MNML"}, res.Data)
	assert.Equal(t, clock.Now(), res.FetchedAt)

	entry, ok := store.Get("standings:majors")
	require.True(t, ok)
	assert.Equal(t, clock.Now(), entry.FetchedAt)
}

func TestStore_Query_MissFailureReturnsEmptyResult(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := newInlineStore(clock, nil)
	errBoom := errors.New("sheets unavailable")

	res := store.Query(context.Background(), "k", func(context.Context) ([]string, error) {
		return nil, errBoom
	})

	assert.ErrorIs(t, res.Err, errBoom)
	assert.False(t, res.FromCache)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Zero(t, store.Len())
}

func TestStore_Query_TTLBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		age         time.Duration
		wantRefresh bool
	}{
		{name: "just past ttl is stale", age: testTTL + time.Millisecond, wantRefresh: true},
		{name: "exactly ttl is stale", age: testTTL, wantRefresh: true},
		{name: "just inside ttl is fresh", age: testTTL - time.Millisecond, wantRefresh: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
			recorder := newCountingRecorder()
			store := newInlineStore(clock, recorder)
			fetchedAt := clock.Now().Add(-tc.age)
			require.True(t, store.Put("k", []string{"old"}, fetchedAt))

			var calls atomic.Int32
			res := store.Query(context.Background(), "k", func(context.Context) ([]string, error) {
				calls.Add(1)
				return []string{"new"}, nil
			})

			assert.True(t, res.FromCache)
			assert.Equal(t, []string{"old"}, res.Data, "caller always gets the cached snapshot")
			assert.Equal(t, fetchedAt, res.FetchedAt)
			if tc.wantRefresh {
				assert.EqualValues(t, 1, calls.Load())
				entry, _ := store.Get("k")
				assert.Equal(t, []string{"new"}, entry.Payload)
				assert.Equal(t, 1, recorder.refreshCount(RefreshOK))
			} else {
				assert.EqualValues(t, 0, calls.Load())
				assert.Equal(t, 0, recorder.refreshCount(RefreshOK))
			}
		})
	}
}

func TestStore_Query_BackgroundFailureKeepsStaleEntry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	recorder := newCountingRecorder()
	store := newInlineStore(clock, recorder)
	fetchedAt := clock.Now().Add(-2 * testTTL)
	store.Put("k", []string{"stale"}, fetchedAt)

	res := store.Query(context.Background(), "k", func(context.Context) ([]string, error) {
		return nil, errors.New("quota exceeded")
	})

	require.NoError(t, res.Err, "background failures are never surfaced")
	assert.True(t, res.FromCache)
	assert.Equal(t, []string{"stale"}, res.Data)

	entry, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, fetchedAt, entry.FetchedAt)
	assert.Equal(t, 1, recorder.refreshCount(RefreshError))
}

func TestStore_Query_BackgroundPanicIsContained(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := newInlineStore(clock, nil)
	store.Put("k", []string{"stale"}, clock.Now().Add(-2*testTTL))

	assert.NotPanics(t, func() {
		res := store.Query(context.Background(), "k", func(context.Context) ([]string, error) {
			panic("nil sheet")
		})
		assert.Equal(t, []string{"stale"}, res.Data)
	})
}

func TestStore_Query_SyncPanicBecomesError(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := newInlineStore(clock, nil)

	res := store.Query(context.Background(), "k", func(context.Context) ([]string, error) {
		panic("index out of range")
	})

	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "fetcher panicked")
	assert.Empty(t, res.Data)
}

func TestStore_Query_ColdRequestsShareOneFetch(t *testing.T) {
	t.Parallel()

	store := NewStore[string](Options{Name: "rankings", TTL: time.Hour, Logger: logging.NewNop()})
	var calls atomic.Int32

	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"value"}, nil
	}

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			res := store.Query(context.Background(), "same-key", fetch)
			if res.Err != nil || len(res.Data) != 1 {
				t.Errorf("unexpected result: %+v", res)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
}

func TestStore_Query_ColdFetchSurvivesCallerLeaving(t *testing.T) {
	t.Parallel()

	store := NewStore[string](Options{Name: "standings", TTL: time.Hour, Logger: logging.NewNop()})
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	fetch := func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		select {
		case <-release:
			return []string{"fresh"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	leaverCtx, cancel := context.WithCancel(context.Background())
	leaver := make(chan Result[string], 1)
	go func() { leaver <- store.Query(leaverCtx, "k", fetch) }()
	<-started

	follower := make(chan Result[string], 1)
	go func() { follower <- store.Query(context.Background(), "k", fetch) }()

	cancel()
	left := <-leaver
	require.ErrorIs(t, left.Err, context.Canceled)
	assert.Empty(t, left.Data)

	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-follower
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"fresh"}, res.Data)
	assert.EqualValues(t, 1, calls.Load())

	entry, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, []string{"fresh"}, entry.Payload)
}

func TestStore_Query_ColdFetchIsBounded(t *testing.T) {
	t.Parallel()

	store := NewStore[string](Options{
		Name:         "standings",
		TTL:          time.Hour,
		FetchTimeout: 20 * time.Millisecond,
		Logger:       logging.NewNop(),
	})

	res := store.Query(context.Background(), "k", func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	require.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.NotNil(t, res.Data)
	assert.Zero(t, store.Len())
}

func TestStore_Query_DedupeBackgroundRefresh(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	recorder := newCountingRecorder()
	store := NewStore[string](Options{
		Name:          "standings",
		TTL:           testTTL,
		DedupeRefresh: true,
		Runner:        worker.Spawn{Logger: logging.NewNop()},
		Logger:        logging.NewNop(),
		Recorder:      recorder,
		Now:           clock.Now,
	})
	store.Put("k", []string{"stale"}, clock.Now().Add(-2*testTTL))

	release := make(chan struct{})
	done := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			defer close(done)
		}
		<-release
		return []string{"fresh"}, nil
	}

	for i := 0; i < 5; i++ {
		res := store.Query(context.Background(), "k", fetch)
		assert.Equal(t, []string{"stale"}, res.Data)
	}
	close(release)
	<-done

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, 4, recorder.refreshCount(RefreshSkipped))
}

func TestStore_Query_BackgroundRefreshOutlivesRequestContext(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := newInlineStore(clock, nil)
	store.Put("k", []string{"stale"}, clock.Now().Add(-2*testTTL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sawErr error
	store.Query(ctx, "k", func(ctx context.Context) ([]string, error) {
		sawErr = ctx.Err()
		return []string{"fresh"}, nil
	})

	assert.NoError(t, sawErr)
	entry, _ := store.Get("k")
	assert.Equal(t, []string{"fresh"}, entry.Payload)
}

func TestStore_Put_OnlyNewerEntriesReplace(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := newInlineStore(clock, nil)
	at := clock.Now()

	assert.True(t, store.Put("k", []string{"a"}, at))
	assert.False(t, store.Put("k", []string{"b"}, at))
	assert.False(t, store.Put("k", []string{"c"}, at.Add(-time.Second)))
	assert.True(t, store.Put("k", []string{"d"}, at.Add(time.Second)))

	entry, _ := store.Get("k")
	assert.Equal(t, []string{"d"}, entry.Payload)
}

func TestStore_Get_ReturnsCopy(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	store := newInlineStore(clock, nil)
	store.Put("k", []string{"a"}, clock.Now())

	entry, _ := store.Get("k")
	entry.Payload[0] = "mutated"

	again, _ := store.Get("k")
	assert.Equal(t, []string{"a"}, again.Payload)
}
