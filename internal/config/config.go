// Package config reads the murmur settings from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/murmur/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Config holds every setting the murmur commands read from the environment.
// Command-line flags take precedence over these values.
type Config struct {
	Rows            string `env:"MURMUR_ROWS"`
	ChoiceScanLimit int    `env:"MURMUR_CHOICE_SCAN_LIMIT" envDefault:"20"`
	MaxOffered      int    `env:"MURMUR_MAX_OFFERED" envDefault:"0"`
	LogLevel        string `env:"MURMUR_LOG_LEVEL" envDefault:"info"`
	RedisAddr       string `env:"MURMUR_REDIS_ADDR"`
	RedisPrefix     string `env:"MURMUR_REDIS_PREFIX" envDefault:"murmur:"`
	Port            int    `env:"MURMUR_PORT" envDefault:"8080"`
	Metrics         bool   `env:"MURMUR_METRICS"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ChoiceScanLimit < 1 {
		return Config{}, fmt.Errorf("MURMUR_CHOICE_SCAN_LIMIT must be positive, got %d", cfg.ChoiceScanLimit)
	}
	if cfg.MaxOffered < 0 {
		return Config{}, fmt.Errorf("MURMUR_MAX_OFFERED must not be negative, got %d", cfg.MaxOffered)
	}
	return cfg, nil
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}
