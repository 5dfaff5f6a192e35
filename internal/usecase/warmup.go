package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type WarmReport struct {
	Divisions int
	Loaded    int
	Failed    int
	Duration  time.Duration
}

// Warm fills the standings cache for every configured division. It never
// fails; per-division problems are counted and logged by GetStandings.
func (s *StandingsService) Warm(ctx context.Context, concurrency int) WarmReport {
	ctx, span := startQuerySpan(ctx, "usecase.StandingsService.Warm", attribute.Int("league.warm_concurrency", concurrency))
	defer span.End()

	started := time.Now()
	divisions := s.Divisions()
	if concurrency < 1 {
		concurrency = 1
	}

	var loaded, failed atomic.Int32
	p := pool.New().WithMaxGoroutines(concurrency)
	for _, division := range divisions {
		p.Go(func() {
			if ctx.Err() != nil {
				failed.Add(1)
				return
			}
			if res := s.GetStandings(ctx, division); res.Status == StatusOK {
				loaded.Add(1)
				return
			}
			failed.Add(1)
		})
	}
	p.Wait()

	report := WarmReport{
		Divisions: len(divisions),
		Loaded:    int(loaded.Load()),
		Failed:    int(failed.Load()),
		Duration:  time.Since(started),
	}
	s.logger.InfoContext(ctx, "standings cache warmed",
		"divisions", report.Divisions,
		"loaded", report.Loaded,
		"failed", report.Failed,
		"duration", report.Duration,
	)
	return report
}
