package config

import (
	"errors"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: Inventory backend API configuration
//   - session.go: Session encryption and profile cookie configuration
//   - storage.go: Profile storage (memory or Redis) configuration
//   - http.go: HTTP server configuration
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (noop encryption allowed, text logs).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Backend API configuration
	Backend BackendConfig

	// Session configuration
	Session SessionConfig

	// Profile storage configuration
	Storage StorageConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.Backend.Sanitize()
	c.Session.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports configuration that cannot be started with.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("IMS_API_BASE_URL is required"))
	}
	if c.Session.EncryptionKey == "" && !c.IsDev {
		errs = append(errs, errors.New("SESSION_ENCRYPTION_KEY is required outside development"))
	}
	if err := c.HTTP.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
