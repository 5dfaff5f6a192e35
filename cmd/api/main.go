package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/league-sheets/internal/app"
	"github.com/riskibarqy/league-sheets/internal/config"
	"github.com/riskibarqy/league-sheets/internal/observability"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	srv, err := app.NewHTTPServer(cfg, services, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	if cfg.WarmOnStart {
		go services.Standings.Warm(ctx, cfg.WarmConcurrency)
	}
	warmScheduler, err := app.NewWarmScheduler(cfg.WarmSchedule, cfg.WarmConcurrency, services.Standings, logger)
	if err != nil {
		logger.Error("build warm scheduler", "error", err)
		os.Exit(1)
	}
	warmScheduler.Start(ctx)

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	select {
	case <-warmScheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("scheduled warm-up still running at shutdown")
	}
	if err := services.Close(cfg.ShutdownTimeout); err != nil {
		logger.Warn("refresh workers did not drain", "error", err)
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown", "error", err)
	}

	logger.Info("http server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
