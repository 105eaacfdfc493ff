// Package main provides the entry point for the journal catalog service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openscholar/journal-catalog-service/internal/cache"
	"github.com/openscholar/journal-catalog-service/internal/catalog"
	"github.com/openscholar/journal-catalog-service/internal/config"
	"github.com/openscholar/journal-catalog-service/internal/loader"
	"github.com/openscholar/journal-catalog-service/internal/observability"
	httpserver "github.com/openscholar/journal-catalog-service/internal/server/http"
	"github.com/openscholar/journal-catalog-service/internal/source"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("journal-catalog-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("journal_catalog")

	// Open the persistent cache if enabled. A cache that fails to open
	// degrades to cacheless operation instead of aborting startup.
	var blobs loader.Blobs
	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Dir, logger)
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.Cache.Dir).Msg("cache unavailable, continuing without it")
		} else {
			defer func() {
				if closeErr := c.Close(); closeErr != nil {
					logger.Error().Err(closeErr).Msg("failed to close cache")
				}
			}()
			blobs = c
			logger.Info().Str("dir", cfg.Cache.Dir).Msg("persistent cache opened")
		}
	}

	// Create the remote source client if enabled.
	var fetcher loader.Fetcher
	if cfg.Source.Enabled {
		fetcher = source.NewClient(source.Config{
			URL:       cfg.Source.URL,
			Timeout:   cfg.Source.Timeout,
			RateLimit: cfg.Source.RateLimit,
		}, logger)
	}

	store := catalog.NewStore()
	ldr := loader.New(store, blobs, fetcher, metrics, logger)
	if cfg.Dataset.Path != "" {
		ldr.UseDatasetFile(cfg.Dataset.Path)
	}

	// Load the catalog in the background: the cached or bundled snapshot is
	// published immediately, the remote refresh follows.
	go func() {
		if err := ldr.Load(ctx); err != nil {
			logger.Warn().Err(err).Msg("initial catalog load degraded")
		}
	}()

	// Periodic remote refresh when configured.
	if cfg.Source.Enabled && cfg.Source.RefreshInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Source.RefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := ldr.Refresh(ctx); err != nil {
						logger.Warn().Err(err).Msg("periodic refresh failed")
					}
				}
			}
		}()
	}

	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	httpSrv := httpserver.NewServer(httpCfg, store, ldr, metrics, logger)

	// Set up Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	// Start HTTP API server in background.
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start metrics server if configured.
	if metricsServer != nil {
		go func() {
			logger.Info().
				Str("address", metricsServer.Addr).
				Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", httpCfg.Address)
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("journal-catalog-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down journal-catalog-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown error")
		}
	}

	logger.Info().Msg("journal-catalog-service shutdown complete")
	return nil
}
