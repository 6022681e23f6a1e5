package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port           string   `env:"PORT" envDefault:"4000"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"text"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	Metrics        MetricsConfig
	Live           LiveConfig
}

// LiveConfig controls the WebSocket feed.
type LiveConfig struct {
	SendBuffer int `env:"LIVE_SEND_BUFFER" envDefault:"16"`
}

// Load reads configuration from environment variables with sensible defaults.
// Variables from the given dotenv files (or ./.env when none are given) fill
// in anything not already set in the environment.
func Load(envFiles ...string) (Config, error) {
	if err := loadDotEnv(envFiles); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

func (c Config) validate() error {
	if err := validatePort("PORT", c.Port); err != nil {
		return err
	}
	if c.Metrics.Enabled {
		if err := validatePort("METRICS_PORT", c.Metrics.Port); err != nil {
			return err
		}
	}
	if c.Live.SendBuffer < 1 {
		return fmt.Errorf("LIVE_SEND_BUFFER must be positive, got %d", c.Live.SendBuffer)
	}
	return nil
}

func validatePort(name, raw string) error {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}
