package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/boss-respawn-tracker/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/boss-respawn-tracker/internal/adapter/kafka"
	"github.com/couchcryptid/boss-respawn-tracker/internal/adapter/sheet"
	"github.com/couchcryptid/boss-respawn-tracker/internal/config"
	"github.com/couchcryptid/boss-respawn-tracker/internal/observability"
	"github.com/couchcryptid/boss-respawn-tracker/internal/pipeline"
	"github.com/couchcryptid/boss-respawn-tracker/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	tr := tracker.New(cfg.Schema, logger,
		tracker.WithLocation(cfg.Location),
		tracker.WithNextCount(cfg.NextCount),
	)
	fetcher := sheet.NewClient(cfg.SheetURL, cfg.SheetTimeout, cfg.SheetRetryCount, logger)

	// Status publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka status publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka status publishing disabled")
	}

	refresher := pipeline.New(fetcher, tr, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, tr, refresher, cfg.AdminToken, metrics, logger)
	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN not set, manual refresh disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start the refresh schedule; the first fetch runs immediately.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := refresher.Run(ctx, cfg.RefreshSchedule); err != nil {
			logger.Error("refresher error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("refresher did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
