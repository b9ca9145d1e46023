package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/penguin-scatter/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/penguin-scatter/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/penguin-scatter/internal/adapter/kafka"
	"github.com/couchcryptid/penguin-scatter/internal/app"
	"github.com/couchcryptid/penguin-scatter/internal/config"
	"github.com/couchcryptid/penguin-scatter/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loader := dataset.NewClient(cfg.DatasetURL, cfg.DatasetFetchTimeout, cfg.DatasetFetchRetries, cfg.DatasetMaxBytes, logger, metrics)
	opts := []app.Option{app.WithCacheSize(cfg.RenderCacheSize)}

	// Hover analytics are feature-flagged via HOVER_EVENTS_ENABLED / KAFKA_BROKERS.
	var writer *kafkaadapter.Writer
	if cfg.HoverEventsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, app.WithPublisher(writer))
		logger.Info("hover events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaHoverTopic)
	} else {
		logger.Info("hover events disabled")
	}

	a := app.New(loader, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, a, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Load the dataset and publish hover events.
	go func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("app error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
