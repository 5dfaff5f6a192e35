package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

// Runner executes detached tasks. Implementations must never let a task panic
// escape into the process.
type Runner interface {
	Go(ctx context.Context, name string, task func(context.Context)) error
}

// Pool runs tasks on a bounded ants pool. Submissions never block: a full pool
// rejects the task with ants.ErrPoolOverload.
type Pool struct {
	pool   *ants.Pool
	logger *logging.Logger
}

func NewPool(size int, logger *logging.Logger) (*Pool, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if size < 1 {
		size = 1
	}

	p, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Pool{pool: p, logger: logger}, nil
}

func (p *Pool) Go(ctx context.Context, name string, task func(context.Context)) error {
	if err := p.pool.Submit(func() { runGuarded(ctx, p.logger, name, task) }); err != nil {
		return fmt.Errorf("submit %s: %w", name, err)
	}
	return nil
}

// Running reports the number of busy workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release waits up to timeout for running tasks, then stops the pool.
func (p *Pool) Release(timeout time.Duration) error {
	if timeout <= 0 {
		p.pool.Release()
		return nil
	}
	return p.pool.ReleaseTimeout(timeout)
}

// Spawn runs every task on its own goroutine, unbounded.
type Spawn struct {
	Logger *logging.Logger
}

func (r Spawn) Go(ctx context.Context, name string, task func(context.Context)) error {
	logger := r.Logger
	if logger == nil {
		logger = logging.Default()
	}
	go runGuarded(ctx, logger, name, task)
	return nil
}

// Inline runs tasks synchronously on the caller's goroutine with the same
// panic boundary as Pool. Used by tests.
type Inline struct {
	Logger *logging.Logger
}

func (r Inline) Go(ctx context.Context, name string, task func(context.Context)) error {
	logger := r.Logger
	if logger == nil {
		logger = logging.Default()
	}
	runGuarded(ctx, logger, name, task)
	return nil
}

func runGuarded(ctx context.Context, logger *logging.Logger, name string, task func(context.Context)) {
	var catcher panics.Catcher
	catcher.Try(func() { task(ctx) })
	if recovered := catcher.Recovered(); recovered != nil {
		logger.ErrorContext(ctx, "background task panicked", "task", name, "error", recovered.AsError())
	}
}
