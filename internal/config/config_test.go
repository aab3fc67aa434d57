package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load("catalog-service", "8081")
	require.NoError(t, err)

	assert.Equal(t, "catalog-service", cfg.ServiceName)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "catalog-activity", cfg.Kafka.Topic)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, "localhost:9090", cfg.UserService.Addr)
	assert.Equal(t, 3*time.Second, cfg.UserService.Timeout)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "5s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRPC_PORT", "9191")
	t.Setenv("USER_GRPC_ADDR", "user-service:9090")
	t.Setenv("USER_GRPC_TIMEOUT", "500ms")

	cfg, err := Load("catalog-service", "8081")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.HTTP.RequestTimeout)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9191", cfg.GRPC.Port)
	assert.Equal(t, "user-service:9090", cfg.UserService.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.UserService.Timeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: staging
database:
  host: yaml-host
  name: catalog
kafka:
  topic: yaml-topic
`), 0o600))

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("DB_NAME", "from_env")

	cfg, err := Load("user-service", "8080")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "yaml-host", cfg.Database.Host)
	assert.Equal(t, "from_env", cfg.Database.Name)
	assert.Equal(t, "yaml-topic", cfg.Kafka.Topic)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		t.Setenv("LOG_LEVEL", "verbose")
		_, err := Load("catalog-service", "8081")
		assert.Error(t, err)
	})

	t.Run("default secret in production", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		t.Setenv("ENVIRONMENT", "production")
		_, err := Load("catalog-service", "8081")
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("non numeric port", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		t.Setenv("HTTP_PORT", "http")
		_, err := Load("catalog-service", "8081")
		assert.Error(t, err)
	})
}
