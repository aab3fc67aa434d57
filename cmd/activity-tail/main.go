package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tair/eco-catalog/internal/activity/tail"
	"github.com/tair/eco-catalog/internal/config"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/tracing"
)

func main() {
	cfg, err := config.Load("activity-tail", "9102")
	if err != nil {
		logger.Init("activity-tail", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	tp, err := tracing.InitTracer(cfg.TracerConfig())
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.Topic})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create consumer")
	}
	defer consumer.Close()

	tail.New(prometheus.DefaultRegisterer).Register(consumer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.Addr(), Handler: mux, ReadTimeout: cfg.HTTP.ReadTimeout}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down activity tail...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Metrics server forced to shutdown")
	}
}
