// Package config loads recruitkit settings from the environment. A .env file
// in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultAthleteID is used when RECRUITKIT_ATHLETE_ID is unset, so a single
// athlete can use the CLI without any setup.
const DefaultAthleteID = "00000000-0000-0000-0000-000000000001"

var ErrInvalidAthleteID = errors.New("RECRUITKIT_ATHLETE_ID must be a UUID")

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	AthleteID uuid.UUID

	// Database. An empty DatabaseURL selects SQLite at SQLitePath.
	DatabaseURL     string
	SQLitePath      string
	DatabaseMaxConn int32

	// Catalog file to seed from; empty means the embedded default.
	CatalogPath string

	// Redis status cache. Empty RedisURL stores statuses in the database.
	RedisURL              string
	StatusCacheTTL        time.Duration
	BreakerMaxRequests    uint32
	BreakerInterval       time.Duration
	BreakerTimeout        time.Duration
	BreakerFailureTrigger uint32

	// RabbitMQ. Empty RabbitMQURL makes the worker log events instead.
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetryBackoffBase time.Duration
	OutboxRetryBackoffMax  time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	athleteID, err := uuid.Parse(getEnv("RECRUITKIT_ATHLETE_ID", DefaultAthleteID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAthleteID, err)
	}

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),
		AthleteID: athleteID,

		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SQLitePath:      getEnv("RECRUITKIT_SQLITE_PATH", ""),
		DatabaseMaxConn: int32(getIntEnv("DATABASE_MAX_CONNS", 10)),

		CatalogPath: getEnv("RECRUITKIT_CATALOG_PATH", ""),

		RedisURL:              getEnv("REDIS_URL", ""),
		StatusCacheTTL:        getDurationEnv("STATUS_CACHE_TTL", 30*24*time.Hour),
		BreakerMaxRequests:    uint32(getIntEnv("STATUS_CACHE_BREAKER_MAX_REQUESTS", 1)),
		BreakerInterval:       getDurationEnv("STATUS_CACHE_BREAKER_INTERVAL", time.Minute),
		BreakerTimeout:        getDurationEnv("STATUS_CACHE_BREAKER_TIMEOUT", 30*time.Second),
		BreakerFailureTrigger: uint32(getIntEnv("STATUS_CACHE_BREAKER_FAILURES", 3)),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetryBackoffBase: getDurationEnv("OUTBOX_RETRY_BACKOFF_BASE", time.Second),
		OutboxRetryBackoffMax:  getDurationEnv("OUTBOX_RETRY_BACKOFF_MAX", time.Minute),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 7),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	return cfg, nil
}

// LocalMode reports whether the CLI runs against SQLite.
func (c *Config) LocalMode() bool {
	url := strings.TrimSpace(c.DatabaseURL)
	return url == "" || strings.HasPrefix(url, "sqlite://") || strings.HasPrefix(url, "file:")
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil && i >= 0 {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
