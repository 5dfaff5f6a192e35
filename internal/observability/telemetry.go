package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/league-sheets/internal/config"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
)

// Telemetry owns the process-wide tracing, profiling and debug listeners
// started for the API binary.
type Telemetry struct {
	logger        *logging.Logger
	stopTracing   func(context.Context) error
	stopProfiling func() error
	debugServer   *http.Server
}

// Start brings up whatever the config enables. Components that are turned
// off are skipped silently apart from one info line each.
func Start(cfg config.Config, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{
		logger:        logger,
		stopTracing:   func(context.Context) error { return nil },
		stopProfiling: func() error { return nil },
	}

	stopTracing, err := startTracing(cfg, logger)
	if err != nil {
		return nil, err
	}
	t.stopTracing = stopTracing

	stopProfiling, err := startProfiler(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	t.stopProfiling = stopProfiling

	debugServer, err := startDebugServer(cfg, logger)
	if err != nil {
		_ = t.Shutdown(context.Background())
		return nil, err
	}
	t.debugServer = debugServer

	return t, nil
}

// Shutdown stops components in reverse start order and reports every failure.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error
	if t.debugServer != nil {
		if err := t.debugServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			t.logger.Info("pprof server stopped")
		}
		t.debugServer = nil
	}
	if err := t.stopProfiling(); err != nil {
		errs = append(errs, err)
	}
	if err := t.stopTracing(ctx); err != nil {
		errs = append(errs, err)
	}
	t.stopProfiling = func() error { return nil }
	t.stopTracing = func(context.Context) error { return nil }

	return errors.Join(errs...)
}
