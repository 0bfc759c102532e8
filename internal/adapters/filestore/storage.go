// Package filestore implements Storage on a single JSON file, used by the
// command-line client where the file itself is the profile.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/target/ims-ui/internal/ports"
)

var _ ports.Storage = (*Storage)(nil)

type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Storage persists values in a 0600 JSON file. Writes replace the file
// atomically through a temp file and rename.
type Storage struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a Storage backed by path. The file is created on first write.
func New(path string) *Storage {
	return &Storage{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *Storage) Path() string { return s.path }

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}
	e, ok := data[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	if !e.ExpiresAt.IsZero() && !s.now().Before(e.ExpiresAt) {
		delete(data, key)
		if err := s.store(data); err != nil {
			return "", err
		}
		return "", ports.ErrNotFound
	}
	return e.Value, nil
}

func (s *Storage) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	e := entry{Value: value}
	if ttl > 0 {
		e.ExpiresAt = s.now().Add(ttl).UTC()
	}
	data[key] = e
	return s.store(data)
}

func (s *Storage) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := data[k]; ok {
			delete(data, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.store(data)
}

func (s *Storage) load() (map[string]entry, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]entry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	data := make(map[string]entry)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Storage) store(data map[string]entry) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".profile-*")
	if err != nil {
		return fmt.Errorf("create temp profile: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write profile: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close profile: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace profile: %w", err)
	}
	return nil
}
