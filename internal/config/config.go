// Package config loads server configuration from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over values from the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	// HTTP server
	Port        string   `env:"PORT"         envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	GinMode     string   `env:"GIN_MODE"     envDefault:"release"`

	// Participant directory
	DBPath string `env:"DB_PATH" envDefault:"./data/splitshare.db"`

	// Logging
	LogLevel   string `env:"LOG_LEVEL"    envDefault:"info"`
	LogNoColor bool   `env:"LOG_NO_COLOR" envDefault:"false"`

	// Drafts
	DraftTTL           time.Duration `env:"DRAFT_TTL"            envDefault:"30m"`
	DraftSweepInterval time.Duration `env:"DRAFT_SWEEP_INTERVAL" envDefault:"1m"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "database path cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("invalid gin mode '%s': must be one of debug, release, test", c.GinMode))
	}

	if len(c.CORSOrigins) == 0 {
		problems = append(problems, "at least one CORS origin is required")
	}

	if c.DraftTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid draft TTL %v: must be at least 1 minute", c.DraftTTL))
	}
	if c.DraftSweepInterval < time.Second {
		problems = append(problems, fmt.Sprintf("invalid draft sweep interval %v: must be at least 1 second", c.DraftSweepInterval))
	} else if c.DraftSweepInterval > c.DraftTTL {
		problems = append(problems, fmt.Sprintf("invalid draft sweep interval %v: must not exceed the draft TTL %v", c.DraftSweepInterval, c.DraftTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
