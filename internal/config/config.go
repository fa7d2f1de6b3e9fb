// Package config provides configuration loading and management.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Event store
	EventJournalPath string // JSON journal path (default: ./myclub-events.json)
	EventStoreURL    string // optional SQLite path for the event store; journal when empty

	// Read model
	ReadModelURL   string // SQL connection string; postgres:// uses PostgreSQL, otherwise SQLite path
	ResetReadModel bool   // wipe and re-project the read model on boot (default: true)

	// Projection worker
	WorkerPollIntervalMs int // poll sleep when the log is drained (default: 1000)
	ProjectionBatchSize  int // events fetched per poll (default: 64)

	// Command bus
	CommandRetryLimit     int // retries after a concurrency conflict (default: 3)
	CommandRetryBackoffMs int // base backoff, doubled per attempt (default: 1)

	// Server
	Port      int    // HTTP server port (default: 8080)
	LogLevel  string // debug, info, warn, error (default: info)
	LogFormat string // text, json (default: text)
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		EventJournalPath:      getEnvOrDefault("EVENT_JOURNAL_PATH", "./myclub-events.json"),
		EventStoreURL:         os.Getenv("EVENT_STORE_URL"),
		ReadModelURL:          getEnvOrDefault("READ_MODEL_URL", "./myclub-readmodel.db"),
		ResetReadModel:        getEnvBoolOrDefault("RESET_READ_MODEL", true),
		WorkerPollIntervalMs:  getEnvIntOrDefault("WORKER_POLL_INTERVAL_MS", 1000),
		ProjectionBatchSize:   getEnvIntOrDefault("PROJECTION_BATCH_SIZE", 64),
		CommandRetryLimit:     getEnvIntOrDefault("COMMAND_RETRY_LIMIT", 3),
		CommandRetryBackoffMs: getEnvIntOrDefault("COMMAND_RETRY_BACKOFF_MS", 1),
		Port:                  getEnvIntOrDefault("PORT", 8080),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:             getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault returns the environment variable as bool or a default.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}

// getEnvIntOrDefault returns the environment variable as int or a default.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
