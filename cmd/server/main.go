package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/rainfall-normals/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rainfall-normals/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-normals/internal/adapter/smn"
	"github.com/couchcryptid/rainfall-normals/internal/config"
	"github.com/couchcryptid/rainfall-normals/internal/observability"
	"github.com/couchcryptid/rainfall-normals/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := smn.NewClient(cfg.SMNBaseURL, cfg.SMNTimeout, cfg.MinContentLength, metrics, logger)
	fetcher, err := smn.NewCachedFetcher(client, cfg.SMNCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create report cache", "error", err)
		os.Exit(1)
	}
	logger.Info("smn client configured", "base_url", cfg.SMNBaseURL, "cache_size", cfg.SMNCacheSize, "timeout", cfg.SMNTimeout)

	// Ranking export is feature-flagged via KAFKA_ENABLED.
	var (
		publisher pipeline.ResultPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	p := pipeline.New(fetcher, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.SMNTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
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
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
