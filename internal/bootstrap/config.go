package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/ims-ui/config"
)

// InitLogger initializes the structured logger and installs it as the default.
// Development gets readable text output; everything else gets JSON.
func InitLogger(obs config.ObservabilityConfig, isDev bool) *slog.Logger {
	logger := NewLogger(os.Stdout, obs, isDev)
	slog.SetDefault(logger)
	return logger
}

// NewLogger builds the process logger writing to w.
func NewLogger(w io.Writer, obs config.ObservabilityConfig, isDev bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: obs.SlogLevel()}
	if isDev {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
