package config

import (
	"strings"
	"time"
)

// SessionConfig controls how the client-held session is protected at rest and
// how browser profiles are identified.
type SessionConfig struct {
	// EncryptionKey is the process-wide session secret. A hex string encoding
	// 32 bytes is used as the AES-256 key directly; anything else is hashed.
	EncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`

	// MaxTTL caps how long a stored session survives without a fresh login.
	MaxTTL time.Duration `env:"SESSION_MAX_TTL" envDefault:"168h"`

	// ProfileCookie names the cookie carrying the browser profile ID.
	ProfileCookie string `env:"PROFILE_COOKIE_NAME" envDefault:"ims_profile"`

	// ProfileMaxAge is the lifetime of the profile cookie.
	ProfileMaxAge time.Duration `env:"PROFILE_COOKIE_MAX_AGE" envDefault:"8760h"`
}

// Sanitize applies defaults to empty or negative values.
func (s *SessionConfig) Sanitize() {
	s.EncryptionKey = strings.TrimSpace(s.EncryptionKey)
	s.ProfileCookie = strings.TrimSpace(s.ProfileCookie)
	if s.ProfileCookie == "" {
		s.ProfileCookie = "ims_profile"
	}
	if s.MaxTTL < 0 {
		s.MaxTTL = 0
	}
	if s.ProfileMaxAge <= 0 {
		s.ProfileMaxAge = 365 * 24 * time.Hour
	}
}
