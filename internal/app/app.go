package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/league-sheets/external/googlesheets"
	"github.com/riskibarqy/league-sheets/internal/config"
	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/domain/standing"
	"github.com/riskibarqy/league-sheets/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-sheets/internal/platform/cache"
	idgen "github.com/riskibarqy/league-sheets/internal/platform/id"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/riskibarqy/league-sheets/internal/platform/metrics"
	"github.com/riskibarqy/league-sheets/internal/platform/resilience"
	"github.com/riskibarqy/league-sheets/internal/platform/worker"
	"github.com/riskibarqy/league-sheets/internal/usecase"
)

// Services holds the query services and the resources they share.
type Services struct {
	Standings     *usecase.StandingsService
	PowerRankings *usecase.PowerRankingService
	// Metrics is nil when METRICS_ENABLED=false.
	Metrics *metrics.Registry

	workers *worker.Pool
	logger  *logging.Logger
}

// NewServices wires the Sheets client, the caches and the query services.
// loader replaces the Sheets client when non-nil.
func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger, loader usecase.SheetLoader) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		registry      *metrics.Registry
		cacheRecorder cache.Recorder
		fetchRecorder googlesheets.FetchRecorder
	)
	if cfg.MetricsEnabled {
		registry = metrics.NewRegistry()
		cacheRecorder = registry
		fetchRecorder = registry
	}

	if loader == nil {
		client, err := googlesheets.NewClient(ctx, googlesheets.ClientConfig{
			ServiceAccountEmail: cfg.GoogleServiceAccountEmail,
			PrivateKey:          cfg.GooglePrivateKey,
			Endpoint:            cfg.SheetsEndpoint,
			Timeout:             cfg.SheetsTimeout,
			MaxRetries:          cfg.SheetsMaxRetries,
			RetryBackoff:        cfg.SheetsRetryBackoff,
			MaxRows:             cfg.SheetsMaxRows,
			LastColumn:          cfg.SheetsLastColumn,
			Logger:              logger,
			Recorder:            fetchRecorder,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SheetsCircuitEnabled,
				FailureThreshold: cfg.SheetsCircuitFailureCount,
				OpenTimeout:      cfg.SheetsCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SheetsCircuitHalfOpenMax,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("build sheets client: %w", err)
		}
		loader = client
	}

	workers, err := worker.NewPool(cfg.RefreshWorkers, logger.Named("worker"))
	if err != nil {
		return nil, err
	}

	standingsStore := cache.NewStore[standing.Standing](cache.Options{
		Name:           "standings",
		TTL:            cfg.StandingsCacheTTL,
		RefreshTimeout: cfg.RefreshTimeout,
		FetchTimeout:   cfg.FetchTimeout,
		DedupeRefresh:  cfg.RefreshDedupe,
		Runner:         workers,
		Logger:         logger,
		Recorder:       cacheRecorder,
	})
	rankingsStore := cache.NewStore[ranking.Entry](cache.Options{
		Name:           "power_rankings",
		TTL:            cfg.PowerRankingsCacheTTL,
		RefreshTimeout: cfg.RefreshTimeout,
		FetchTimeout:   cfg.FetchTimeout,
		DedupeRefresh:  cfg.RefreshDedupe,
		Runner:         workers,
		Logger:         logger,
		Recorder:       cacheRecorder,
	})

	return &Services{
		Standings: usecase.NewStandingsService(
			loader,
			cfg.StandingsSpreadsheetIDs,
			usecase.DefaultStandingsLayout(),
			standingsStore,
			logger,
		),
		PowerRankings: usecase.NewPowerRankingService(
			loader,
			cfg.PowerRankingsSpreadsheetIDs,
			usecase.DefaultPowerRankingLayouts(),
			rankingsStore,
			logger,
		),
		Metrics: registry,
		workers: workers,
		logger:  logger,
	}, nil
}

// Close waits up to timeout for in-flight background refreshes.
func (s *Services) Close(timeout time.Duration) error {
	if s == nil || s.workers == nil {
		return nil
	}
	if err := s.workers.Release(timeout); err != nil {
		return fmt.Errorf("release refresh workers: %w", err)
	}
	return nil
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	opts := httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestIDs:         idgen.NewRandomGenerator(8),
	}
	if services.Metrics != nil {
		opts.MetricsHandler = services.Metrics.Handler()
	}

	handler := httpapi.NewHandler(services.Standings, services.PowerRankings, logger)
	router := httpapi.NewRouter(handler, logger, opts)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
