package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for profile, flash and CSRF cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// CookieSecure marks cookies Secure. Disable only for plain-HTTP development.
	CookieSecure bool `env:"APP_COOKIE_SECURE" envDefault:"true"`

	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT"    envDefault:"10s"`

	// MaxUploadBytes bounds multipart product forms (image included).
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"10485760"`

	// CompressionEnabled gzips pages, static assets and PDF reports.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`

	// CompressionLevel is the gzip compression level (1-9).
	CompressionLevel int `env:"HTTP_COMPRESSION_LEVEL" envDefault:"6"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.ReadHeaderTimeout <= 0 {
		h.ReadHeaderTimeout = 10 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
	if h.MaxUploadBytes <= 0 {
		h.MaxUploadBytes = 10 << 20
	}
	h.CompressionLevel = min(max(h.CompressionLevel, 1), 9)
}

// Validate rejects a cookie domain browsers would refuse: a public suffix such
// as "com" or "co.uk" cannot carry cookies.
func (h *HTTPConfig) Validate() error {
	domain := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h.CookieDomain), "."))
	if domain == "" {
		return nil
	}
	if suffix, icann := publicsuffix.PublicSuffix(domain); icann && suffix == domain {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix", h.CookieDomain)
	}
	return nil
}
