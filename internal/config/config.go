// Package config loads application configuration from environment
// variables using go-envconfig struct tags. Every knob has a default
// suitable for a local run, so `go run ./cmd/server` works with no
// environment at all.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime configuration for the server.
type Config struct {
	Port     int    `env:"PORT,     default=8080"`
	DBPath   string `env:"DB_PATH,  default=data/daily-diet.db"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Env      string `env:"ENV,      default=development"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}
	return &cfg, nil
}
