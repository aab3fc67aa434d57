package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/eco-catalog/api-gateway/config"
	"github.com/tair/eco-catalog/api-gateway/middleware"
	"github.com/tair/eco-catalog/api-gateway/routes"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("api-gateway", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Msg("Starting API Gateway")

	// Initialize tracer
	tp, err := tracing.InitTracer(cfg.TracerConfig())
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	app := routes.NewApp(cfg, routes.Dependencies{
		Limiter:  newLimiter(cfg),
		Tokens:   auth.NewTokenManager(cfg.JWTSecret, 0),
		Breakers: middleware.NewBreakers(middleware.DefaultBreakerSettings()),
	})

	go func() {
		for name, svc := range cfg.Services {
			logger.Logger.Info().
				Str("service", name).
				Strs("instances", svc.Instances).
				Msg("Routing to upstream")
		}
		logger.Logger.Info().Str("port", cfg.Port).Msg("API Gateway listening")

		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down API Gateway...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// newLimiter uses Redis when it answers a ping at startup. The local limiter
// always backs it so a Redis outage degrades to per-replica limits.
func newLimiter(cfg *config.GatewayConfig) middleware.Limiter {
	local := middleware.NewLocalLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", cfg.Redis.Addr).
			Msg("Redis unavailable, rate limiting per replica")
		_ = client.Close()
		return local
	}

	logger.Logger.Info().
		Str("redis_addr", cfg.Redis.Addr).
		Int("requests", cfg.RateLimit.Requests).
		Dur("window", cfg.RateLimit.Window).
		Msg("Rate limiting backed by Redis")
	return middleware.FallbackLimiter{
		Primary:  middleware.NewRedisLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		Fallback: local,
	}
}
