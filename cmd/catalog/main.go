package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	"github.com/tair/eco-catalog/docs/catalogdocs"
	activityrepo "github.com/tair/eco-catalog/internal/activity/repository"
	"github.com/tair/eco-catalog/internal/catalog"
	"github.com/tair/eco-catalog/internal/config"
	"github.com/tair/eco-catalog/internal/product/client"
	producthttp "github.com/tair/eco-catalog/internal/product/delivery/http"
	productrepo "github.com/tair/eco-catalog/internal/product/repository"
	userrepo "github.com/tair/eco-catalog/internal/user/repository"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/database"
	"github.com/tair/eco-catalog/pkg/health"
	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/middleware"
	"github.com/tair/eco-catalog/pkg/tracing"
)

func main() {
	cfg, err := config.Load("catalog-service", "8081")
	if err != nil {
		logger.Init("catalog-service", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Bool("kafka_enabled", cfg.Kafka.Enabled).
		Msg("Starting catalog service")

	// Initialize tracer
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

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database.GormConfig())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	if err := migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userClient, err := client.NewUserServiceClient(cfg.UserService.Addr, cfg.UserService.Timeout)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create user service client")
	}
	defer userClient.Close()

	handlers, err := catalog.InitializeHandlers(db, tokens, publisher, userClient, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handlers")
	}

	mwConfig := middleware.DefaultConfig("catalog-service")
	mwConfig.TimeoutDuration = cfg.HTTP.RequestTimeout

	router := mux.NewRouter()
	middleware.Register(router, mwConfig)
	handlers.RegisterRoutes(router)
	router.HandleFunc("/health", health.Handler(cfg.ServiceName, sqlDB)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	catalogdocs.SwaggerInfo.Host = "localhost:" + cfg.HTTP.Port
	producthttp.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      middleware.CORS(mwConfig)(router),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// migrate creates tables in foreign key order: users and products before the
// activity tables that reference them.
func migrate(db *gorm.DB) error {
	if err := userrepo.NewGormUserRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := productrepo.NewGormProductRepository(db).AutoMigrate(); err != nil {
		return err
	}
	return activityrepo.NewGormActivityRepository(db).AutoMigrate()
}

// newPublisher falls back to a no-op publisher when Kafka is disabled or
// unreachable. Activity events are best effort.
func newPublisher(cfg config.KafkaConfig) kafka.ActivityPublisher {
	if !cfg.Enabled {
		return kafka.NoopPublisher{}
	}
	p, err := kafka.NewPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		logger.Logger.Warn().Err(err).Strs("brokers", cfg.Brokers).Msg("Kafka unavailable, activity events disabled")
		return kafka.NoopPublisher{}
	}
	logger.Logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Kafka publisher connected")
	return p
}
