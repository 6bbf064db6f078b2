// Package config loads frontend settings from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the frontend settings.
type Config struct {
	Port             string        `env:"ACTIVITIES_PORT"              envDefault:"8080"`
	BackendURL       string        `env:"ACTIVITIES_BACKEND_URL"       envDefault:"http://localhost:8000"`
	BackendTimeout   time.Duration `env:"ACTIVITIES_BACKEND_TIMEOUT"   envDefault:"10s"`
	MessageHideDelay time.Duration `env:"ACTIVITIES_MESSAGE_HIDE_DELAY" envDefault:"5s"`
	SessionTTL       time.Duration `env:"ACTIVITIES_SESSION_TTL"       envDefault:"30m"`
	CSRFKey          string        `env:"ACTIVITIES_CSRF_KEY"`
	LogLevel         string        `env:"ACTIVITIES_LOG_LEVEL"         envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend url is required")
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return fmt.Errorf("csrf key must be 32 bytes, got %d", len(c.CSRFKey))
	}
	if c.MessageHideDelay < 0 {
		return fmt.Errorf("message hide delay must not be negative")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative")
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}
