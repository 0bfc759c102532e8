package config

import (
	"strings"
	"time"
)

// BackendConfig points the front end at the inventory backend REST API.
type BackendConfig struct {
	// BaseURL is the API root every endpoint path is appended to.
	BaseURL string `env:"IMS_API_BASE_URL" envDefault:"http://localhost:5050/api"`

	// Timeout bounds a single backend round trip.
	Timeout time.Duration `env:"IMS_API_TIMEOUT" envDefault:"30s"`
}

// Sanitize trims the base URL and clamps the timeout.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}
}
