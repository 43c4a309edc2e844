package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/flight-risk-service/internal/adapter/cache"
	"github.com/couchcryptid/flight-risk-service/internal/adapter/chart"
	"github.com/couchcryptid/flight-risk-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/flight-risk-service/internal/config"
	"github.com/couchcryptid/flight-risk-service/internal/domain"
	"github.com/couchcryptid/flight-risk-service/internal/observability"
	"github.com/couchcryptid/flight-risk-service/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	registry := domain.DefaultRegistry()
	var assessor pipeline.Assessor = domain.NewEngine(registry)

	// Assessment cache (feature-flagged via CACHE_ENABLED / CACHE_SIZE).
	if cfg.CacheEnabled {
		assessor = cache.NewCachedAssessor(assessor, cfg.CacheSize, metrics)
		metrics.CacheEnabled.Set(1)
		logger.Info("assessment cache enabled", "cache_size", cfg.CacheSize)
	} else {
		logger.Info("assessment cache disabled")
	}

	var renderer pipeline.Renderer
	if cfg.VisualizationsEnabled {
		renderer = chart.NewRenderer()
	}

	p := pipeline.New(assessor, renderer, registry, logger, metrics, cfg.BatchConcurrency)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Warmup(ctx); err != nil {
		logger.Error("risk model warm-up failed", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, httpadapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		MaxBatchSize:   cfg.BatchSize,
	}, logger, metrics)

	// Serve until a signal arrives or the listener fails, then drain.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
