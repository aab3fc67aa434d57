package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/tair/eco-catalog/pkg/logger"
)

// Config holds configuration for middlewares
type Config struct {
	OperationName   string
	EnableLogging   bool
	EnableTracing   bool
	EnableCORS      bool
	EnableRecovery  bool
	EnableTimeout   bool
	TimeoutDuration time.Duration
	CORSOptions     cors.Options
}

// DefaultConfig returns default middleware configuration
func DefaultConfig(operationName string) *Config {
	return &Config{
		OperationName:   operationName,
		EnableLogging:   true,
		EnableTracing:   true,
		EnableCORS:      true,
		EnableRecovery:  true,
		EnableTimeout:   true,
		TimeoutDuration: 30 * time.Second,
		CORSOptions: cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		},
	}
}

// Register installs the configured middlewares on router
func Register(router *mux.Router, config *Config) {
	logger.Logger.Info().
		Bool("logging", config.EnableLogging).
		Bool("tracing", config.EnableTracing).
		Bool("cors", config.EnableCORS).
		Bool("recovery", config.EnableRecovery).
		Bool("timeout", config.EnableTimeout).
		Dur("timeout_duration", config.TimeoutDuration).
		Msg("Registering middlewares")

	if config.EnableRecovery {
		router.Use(Recovery())
	}
	if config.EnableTimeout {
		router.Use(Timeout(config.TimeoutDuration))
	}
	router.Use(RequestID())
	if config.EnableTracing {
		router.Use(Tracing(config.OperationName))
	}
	if config.EnableLogging {
		router.Use(Logging)
	}
	router.Use(SecurityHeaders())
}

// CORS returns the CORS handler wrapper for config.
func CORS(config *Config) func(http.Handler) http.Handler {
	if !config.EnableCORS {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return cors.New(config.CORSOptions).Handler
}
