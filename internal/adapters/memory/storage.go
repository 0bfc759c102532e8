// Package memory provides an in-process, profile-scoped Storage for development
// and tests. Values do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/ports"
)

var _ ports.Storage = (*Storage)(nil)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Storage keeps one key/value map per profile.
type Storage struct {
	mu       sync.RWMutex
	profiles map[string]map[string]entry
	now      func() time.Time
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{profiles: make(map[string]map[string]entry), now: time.Now}
}

// WithClock overrides the time source used for TTL checks.
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.now = now
	return s
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	profile, ok := domainauth.ProfileFromContext(ctx)
	if !ok {
		return "", ports.ErrNoProfile
	}

	s.mu.RLock()
	e, found := s.profiles[profile][key]
	s.mu.RUnlock()
	if !found {
		return "", ports.ErrNotFound
	}
	if e.expired(s.now()) {
		return s.evict(profile, key)
	}
	return e.value, nil
}

// evict drops an expired entry. The entry is re-read under the write lock so
// a value stored after the read above is returned rather than deleted.
func (s *Storage) evict(profile, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.profiles[profile]
	e, found := m[key]
	if !found {
		return "", ports.ErrNotFound
	}
	if !e.expired(s.now()) {
		return e.value, nil
	}
	delete(m, key)
	if len(m) == 0 {
		delete(s.profiles, profile)
	}
	return "", ports.ErrNotFound
}

func (s *Storage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	profile, ok := domainauth.ProfileFromContext(ctx)
	if !ok {
		return ports.ErrNoProfile
	}

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.profiles[profile]
	if m == nil {
		m = make(map[string]entry)
		s.profiles[profile] = m
	}
	m[key] = e
	return nil
}

func (s *Storage) Remove(ctx context.Context, keys ...string) error {
	profile, ok := domainauth.ProfileFromContext(ctx)
	if !ok {
		return ports.ErrNoProfile
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.profiles[profile]
	for _, k := range keys {
		delete(m, k)
	}
	if len(m) == 0 {
		delete(s.profiles, profile)
	}
	return nil
}
