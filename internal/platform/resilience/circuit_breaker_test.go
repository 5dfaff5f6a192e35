package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, halfOpen int, now *time.Time) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpen,
	})
	b.now = func() time.Time { return *now }
	return b
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(2, 5*time.Second, 1, &now)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}
}

func TestCircuitBreaker_ExecuteOnlyCountsClassifiedFailures(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, time.Minute, 1, &now)

	errNotFound := errors.New("not found")
	errUpstream := errors.New("upstream 503")
	isFailure := func(err error) bool { return errors.Is(err, errUpstream) }

	if err := b.Execute(isFailure, func() error { return errNotFound }); !errors.Is(err, errNotFound) {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after non-failure error, got %s", state)
	}

	_ = b.Execute(isFailure, func() error { return errUpstream })
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after classified failure, got %s", state)
	}

	called := false
	err := b.Execute(isFailure, func() error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected rejected call, err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_DisabledAlwaysAllows(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker rejected call: %v", err)
	}
}

func TestCircuitBreaker_ReportsTransitions(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	var seen []string
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		HalfOpenMaxReq:   1,
		OnStateChange: func(from, to CircuitState) {
			seen = append(seen, string(from)+"->"+string(to))
		},
	})
	b.now = func() time.Time { return now }

	b.RecordFailure()
	_ = b.Allow() // rejected, no transition
	now = now.Add(2 * time.Second)
	_ = b.Allow()
	b.RecordFailure()
	now = now.Add(2 * time.Second)
	_ = b.Allow()
	b.RecordSuccess()

	want := []string{
		"closed->open",
		"open->half_open",
		"half_open->open",
		"open->half_open",
		"half_open->closed",
	}
	if len(seen) != len(want) {
		t.Fatalf("transitions=%v want=%v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d=%q want=%q", i, seen[i], want[i])
		}
	}
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, time.Second, 2, &now)

	b.RecordFailure()
	now = now.Add(time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe rejected: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe rejected: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected third probe rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open while a probe is in flight, got %s", state)
	}
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after all probes passed, got %s", state)
	}
}
