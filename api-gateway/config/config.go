// Package config loads the gateway configuration from defaults and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tair/eco-catalog/pkg/tracing"
	"github.com/tair/eco-catalog/pkg/validation"
)

const (
	ServiceUser    = "user"
	ServiceCatalog = "catalog"
)

// ServiceConfig describes one upstream service and its instances
type ServiceConfig struct {
	Name        string        `koanf:"name"`
	Instances   []string      `koanf:"instances" validate:"min=1,dive,url"`
	Timeout     time.Duration `koanf:"timeout"`
	HealthCheck string        `koanf:"health_check"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"min=1"`
	Window   time.Duration `koanf:"window" validate:"required"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	ServiceName    string                   `koanf:"service_name" validate:"required"`
	Environment    string                   `koanf:"environment"`
	LogLevel       string                   `koanf:"log_level"`
	Port           string                   `koanf:"port" validate:"required,numeric"`
	JWTSecret      string                   `koanf:"jwt_secret"`
	AllowedOrigins string                   `koanf:"allowed_origins"`
	TracingEnabled bool                     `koanf:"tracing_enabled"`
	JaegerEndpoint string                   `koanf:"jaeger_endpoint"`
	Redis          RedisConfig              `koanf:"redis"`
	RateLimit      RateLimitConfig          `koanf:"rate_limit"`
	Services       map[string]ServiceConfig `koanf:"services" validate:"required,dive"`
}

func (c *GatewayConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *GatewayConfig) TracerConfig() tracing.Config {
	return tracing.Config{
		ServiceName:    c.ServiceName,
		JaegerEndpoint: c.JaegerEndpoint,
		Enabled:        c.TracingEnabled,
	}
}

// Default returns the configuration used when nothing is overridden.
func Default() *GatewayConfig {
	return &GatewayConfig{
		ServiceName:    "api-gateway",
		Environment:    "development",
		LogLevel:       "info",
		Port:           "8000",
		JWTSecret:      "dev-only-secret-change-me-please",
		AllowedOrigins: "*",
		TracingEnabled: true,
		JaegerEndpoint: "http://localhost:14268/api/traces",
		Redis:          RedisConfig{Addr: "localhost:6379"},
		RateLimit:      RateLimitConfig{Requests: 100, Window: time.Minute},
		Services: map[string]ServiceConfig{
			ServiceUser: {
				Name:        "user-service",
				Instances:   []string{"http://localhost:8080"},
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			ServiceCatalog: {
				Name:        "catalog-service",
				Instances:   []string{"http://localhost:8081"},
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

var envMappings = map[string]string{
	"otel_service_name":       "service_name",
	"environment":             "environment",
	"log_level":               "log_level",
	"gateway_port":            "port",
	"jwt_secret":              "jwt_secret",
	"cors_allowed_origins":    "allowed_origins",
	"tracing_enabled":         "tracing_enabled",
	"jaeger_endpoint":         "jaeger_endpoint",
	"redis_addr":              "redis.addr",
	"redis_password":          "redis.password",
	"redis_db":                "redis.db",
	"rate_limit_requests":     "rate_limit.requests",
	"rate_limit_window":       "rate_limit.window",
	"user_service_urls":       "services.user.instances",
	"catalog_service_urls":    "services.catalog.instances",
	"user_service_timeout":    "services.user.timeout",
	"catalog_service_timeout": "services.catalog.timeout",
}

var sliceConfigPaths = []string{"services.user.instances", "services.catalog.instances"}

// Load reads .env, then defaults, then environment variables.
func Load() (*GatewayConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", func(key string) string {
		return envMappings[strings.ToLower(key)]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		if err := k.Set(path, splitList(s)); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	cfg := &GatewayConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	parts := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, strings.TrimSuffix(p, "/"))
		}
	}
	return parts
}
