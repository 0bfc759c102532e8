package ports

// Package ports defines the interfaces (hexagonal ports) the session and API
// layers depend on. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
)

var (
	// ErrNotFound is returned by Storage.Get when no value exists under the key.
	ErrNotFound = errors.New("storage: key not found")
	// ErrNoProfile is returned when a profile-scoped store is used without a
	// profile in the context.
	ErrNoProfile = errors.New("storage: no profile in context")
)

// Storage is durable key/value storage scoped to one profile. Profile-scoped
// implementations read the profile from ctx (see domainauth.WithProfile).
type Storage interface {
	// Get returns the value under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Remove deletes keys; missing keys are not an error.
	Remove(ctx context.Context, keys ...string) error
}

// SessionManager is the part of the session store the API client needs:
// reading the bearer token, persisting a freshly issued session, and
// dropping the previous one when that persist fails.
type SessionManager interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, sess domainauth.Session) error
	ClearAuth(ctx context.Context) error
}
