// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/tair/eco-catalog/pkg/database"
	"github.com/tair/eco-catalog/pkg/tracing"
	"github.com/tair/eco-catalog/pkg/validation"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

const devJWTSecret = "dev-only-secret-change-me-please"

var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	ServiceName string            `koanf:"service_name" validate:"required"`
	Environment string            `koanf:"environment" validate:"oneof=development test staging production"`
	LogLevel    string            `koanf:"log_level" validate:"oneof=debug info warn error"`
	HTTP        HTTPConfig        `koanf:"http"`
	GRPC        GRPCConfig        `koanf:"grpc"`
	UserService UserServiceConfig `koanf:"user_service"`
	Database    DatabaseConfig    `koanf:"database"`
	Tracing     TracingConfig     `koanf:"tracing"`
	Auth        AuthConfig        `koanf:"auth"`
	Kafka       KafkaConfig       `koanf:"kafka"`
}

type HTTPConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type GRPCConfig struct {
	Port string `koanf:"port" validate:"required,numeric"`
}

// UserServiceConfig locates the user service gRPC endpoint.
type UserServiceConfig struct {
	Addr    string        `koanf:"addr" validate:"required"`
	Timeout time.Duration `koanf:"timeout"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            string        `koanf:"port" validate:"required,numeric"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	SlowThreshold   time.Duration `koanf:"slow_threshold"`
}

type TracingConfig struct {
	Enabled        bool   `koanf:"enabled"`
	JaegerEndpoint string `koanf:"jaeger_endpoint"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret" validate:"required,min=16"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type KafkaConfig struct {
	Enabled bool     `koanf:"enabled"`
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic" validate:"required"`
	GroupID string   `koanf:"group_id"`
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.HTTP.Port
}

// GRPCAddr is the listen address for the gRPC server.
func (c *Config) GRPCAddr() string {
	return ":" + c.GRPC.Port
}

// GormConfig converts the database section for pkg/database.
func (c DatabaseConfig) GormConfig() database.Config {
	return database.Config{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		DBName:          c.Name,
		SSLMode:         c.SSLMode,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		SlowThreshold:   c.SlowThreshold,
	}
}

// TracerConfig converts the tracing section for pkg/tracing.
func (c *Config) TracerConfig() tracing.Config {
	return tracing.Config{
		ServiceName:    c.ServiceName,
		JaegerEndpoint: c.Tracing.JaegerEndpoint,
		Enabled:        c.Tracing.Enabled,
	}
}

func defaultConfig(serviceName, port string) *Config {
	return &Config{
		ServiceName: serviceName,
		Environment: "development",
		LogLevel:    "info",
		HTTP: HTTPConfig{
			Port:            port,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    35 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		GRPC: GRPCConfig{
			Port: "9090",
		},
		UserService: UserServiceConfig{
			Addr:    "localhost:9090",
			Timeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			Name:            "eco_catalog",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			SlowThreshold:   200 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:        true,
			JaegerEndpoint: "http://localhost:14268/api/traces",
		},
		Auth: AuthConfig{
			JWTSecret: devJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topic:   "catalog-activity",
			GroupID: "activity-tail",
		},
	}
}

var envMappings = map[string]string{
	"environment":          "environment",
	"log_level":            "log_level",
	"otel_service_name":    "service_name",
	"http_port":            "http.port",
	"http_read_timeout":    "http.read_timeout",
	"http_write_timeout":   "http.write_timeout",
	"http_idle_timeout":    "http.idle_timeout",
	"http_request_timeout": "http.request_timeout",
	"shutdown_timeout":     "http.shutdown_timeout",
	"grpc_port":            "grpc.port",
	"user_grpc_addr":       "user_service.addr",
	"user_grpc_timeout":    "user_service.timeout",
	"db_host":              "database.host",
	"db_port":              "database.port",
	"db_user":              "database.user",
	"db_password":          "database.password",
	"db_name":              "database.name",
	"db_sslmode":           "database.sslmode",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_conn_max_lifetime": "database.conn_max_lifetime",
	"db_slow_threshold":    "database.slow_threshold",
	"tracing_enabled":      "tracing.enabled",
	"jaeger_endpoint":      "tracing.jaeger_endpoint",
	"jwt_secret":           "auth.jwt_secret",
	"jwt_ttl":              "auth.token_ttl",
	"kafka_enabled":        "kafka.enabled",
	"kafka_brokers":        "kafka.brokers",
	"kafka_topic":          "kafka.topic",
	"kafka_group_id":       "kafka.group_id",
}

var sliceConfigPaths = []string{"kafka.brokers"}

// envTransformFunc maps known environment variables to config paths.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load builds the configuration for serviceName. defaultPort is used when
// HTTP_PORT is not set.
func Load(serviceName, defaultPort string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(serviceName, defaultPort), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and production-only rules.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if c.Environment == "production" && c.Auth.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS must be set when kafka is enabled")
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
