// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server settings, populated from SHOTZ_* environment
// variables
type Config struct {
	Host string `env:"SHOTZ_HOST" envDefault:""`
	Port int    `env:"SHOTZ_PORT" envDefault:"8080"`

	// StorageType selects the remote store backend: memory or redis
	StorageType string `env:"SHOTZ_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"SHOTZ_REDIS_URL" envDefault:"redis://localhost:6379"`

	// QueueType selects the offline queue backend: memory or sqlite
	QueueType string `env:"SHOTZ_QUEUE" envDefault:"sqlite"`
	QueuePath string `env:"SHOTZ_QUEUE_PATH" envDefault:"shotz-queue.db"`

	// SyncUser is the identity recorded on events replayed from the
	// offline queue
	SyncUser string `env:"SHOTZ_SYNC_USER" envDefault:"offline-sync"`

	// PIN verification rate limit per source address
	PinAttemptLimit  int           `env:"SHOTZ_PIN_ATTEMPT_LIMIT" envDefault:"5"`
	PinAttemptWindow time.Duration `env:"SHOTZ_PIN_ATTEMPT_WINDOW" envDefault:"1m"`

	LogLevel string `env:"SHOTZ_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
