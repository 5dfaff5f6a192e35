package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	// OnStateChange is called after every transition, outside the lock.
	OnStateChange func(from, to CircuitState)
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// CircuitBreaker protects a remote dependency. A disabled breaker always
// allows calls and never changes state.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int // consecutive, closed state only
	openedAt time.Time
	probes   int // half-open calls admitted and not yet finished
	passed   int // half-open calls that succeeded
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now, state: CircuitStateClosed}
}

// Execute runs fn when the breaker allows it. Errors for which countsAsFailure
// returns true trip the breaker; any other outcome counts as success.
func (b *CircuitBreaker) Execute(countsAsFailure func(error) bool, fn func() error) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && countsAsFailure != nil && countsAsFailure(err) {
		b.RecordFailure()
	} else {
		b.RecordSuccess()
	}
	return err
}

// Allow admits a call or returns ErrCircuitOpen. In half-open state only
// HalfOpenMaxReq probes are admitted at a time.
func (b *CircuitBreaker) Allow() error {
	if !b.cfg.Enabled {
		return nil
	}

	b.mu.Lock()
	from, to := b.state, b.state
	var err error
	if b.state == CircuitStateOpen && b.cooledDown() {
		to = b.transition(CircuitStateHalfOpen)
	}
	switch b.state {
	case CircuitStateOpen:
		err = ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			err = ErrCircuitOpen
		} else {
			b.probes++
		}
	}
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) RecordSuccess() {
	if !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	from, to := b.state, b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.probes = max(b.probes-1, 0)
		b.passed++
		if b.passed >= b.cfg.HalfOpenMaxReq && b.probes == 0 {
			to = b.transition(CircuitStateClosed)
		}
	}
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	if !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	from, to := b.state, b.state
	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			to = b.transition(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		to = b.transition(CircuitStateOpen)
	case CircuitStateOpen:
		// A late failure from a call admitted before opening restarts the cooldown.
		b.openedAt = b.now()
	}
	b.mu.Unlock()

	b.notify(from, to)
}

// State reports the effective state: an open breaker whose cooldown elapsed
// reads as half-open even before the next Allow moves it there.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.cooledDown() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout
}

// transition resets per-state counters. Callers hold b.mu.
func (b *CircuitBreaker) transition(to CircuitState) CircuitState {
	b.state = to
	b.failures = 0
	b.probes = 0
	b.passed = 0
	switch to {
	case CircuitStateOpen:
		b.openedAt = b.now()
	case CircuitStateClosed:
		b.openedAt = time.Time{}
	}
	return to
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
