package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/tair/eco-catalog/docs/userdocs"
	"github.com/tair/eco-catalog/internal/config"
	"github.com/tair/eco-catalog/internal/user"
	grpcDelivery "github.com/tair/eco-catalog/internal/user/delivery/grpc"
	httpDelivery "github.com/tair/eco-catalog/internal/user/delivery/http"
	"github.com/tair/eco-catalog/internal/user/repository"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/database"
	"github.com/tair/eco-catalog/pkg/health"
	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/middleware"
	"github.com/tair/eco-catalog/pkg/tracing"
)

func main() {
	cfg, err := config.Load("user-service", "8080")
	if err != nil {
		logger.Init("user-service", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting user service")

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

	// Run migrations
	if err := repository.NewGormUserRepository(db).AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userHandler, err := user.InitializeHTTPHandler(db, tokens, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	userServer, err := user.InitializeGRPCServer(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize gRPC server")
	}
	grpcServer := grpcDelivery.NewServer(tokens, userServer, grpc.StatsHandler(otelgrpc.NewServerHandler()))
	// Register reflection service (for grpcurl and grpc tools)
	reflection.Register(grpcServer)
	go startGRPCServer(grpcServer, cfg.GRPCAddr())

	mwConfig := middleware.DefaultConfig("user-service")
	mwConfig.TimeoutDuration = cfg.HTTP.RequestTimeout

	router := mux.NewRouter()
	middleware.Register(router, mwConfig)
	userHandler.RegisterRoutes(router)
	router.HandleFunc("/health", health.Handler(cfg.ServiceName, sqlDB)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	userdocs.SwaggerInfo.Host = "localhost:" + cfg.HTTP.Port
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

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
	grpcServer.GracefulStop()
}

func startGRPCServer(server *grpc.Server, addr string) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("addr", addr).Msg("Failed to listen for gRPC")
	}

	logger.Logger.Info().Str("addr", addr).Msg("gRPC server started")
	if err := server.Serve(lis); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to serve gRPC")
	}
}
