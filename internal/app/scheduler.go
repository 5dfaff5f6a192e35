package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/riskibarqy/league-sheets/internal/usecase"
	"github.com/robfig/cron/v3"
)

type standingsWarmer interface {
	Warm(ctx context.Context, concurrency int) usecase.WarmReport
}

// WarmScheduler re-runs the standings warm-up on a cron schedule so every
// configured division keeps a cache entry between visits.
type WarmScheduler struct {
	cron        *cron.Cron
	warmer      standingsWarmer
	concurrency int
	logger      *logging.Logger

	mu  sync.Mutex
	ctx context.Context
}

// NewWarmScheduler returns nil when spec is empty. A nil scheduler is safe to
// Start and Stop.
func NewWarmScheduler(spec string, concurrency int, warmer standingsWarmer, logger *logging.Logger) (*WarmScheduler, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	if warmer == nil {
		return nil, fmt.Errorf("warm scheduler needs a standings service")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("warm_scheduler")

	cl := cronLogger{logger: logger}
	s := &WarmScheduler{
		cron:        cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		warmer:      warmer,
		concurrency: max(concurrency, 1),
		logger:      logger,
		ctx:         context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("schedule cache warm-up %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing on schedule. Runs use ctx for trace values and stop
// early once it is cancelled.
func (s *WarmScheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	if entries := s.cron.Entries(); len(entries) > 0 {
		s.logger.Info("cache warm-up scheduled", "next_run", entries[0].Next)
	}
}

// Stop prevents new runs and returns a context that is done once the running
// warm-up, if any, has finished.
func (s *WarmScheduler) Stop() context.Context {
	if s == nil {
		return closedContext()
	}
	return s.cron.Stop()
}

func (s *WarmScheduler) run() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	report := s.warmer.Warm(ctx, s.concurrency)
	s.logger.InfoContext(ctx, "scheduled cache warm-up finished",
		"divisions", report.Divisions,
		"loaded", report.Loaded,
		"failed", report.Failed,
		"duration", report.Duration,
	)
}

func closedContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// cronLogger adapts logging.Logger to cron.Logger. cron's own info lines are
// chatty, so they go to debug.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
