package redis

// Package redis provides Redis-based adapters for the ims front end.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/ports"
)

var _ ports.Storage = (*Storage)(nil)

// DefaultPrefix namespaces profile storage keys.
const DefaultPrefix = "ims:profile:"

// Storage is a Redis-backed, profile-scoped Storage for production use.
// Keys are laid out as <prefix><profile>:<key>.
type Storage struct {
	client redis.UniversalClient
	prefix string
}

// NewStorage creates a Storage using DefaultPrefix.
func NewStorage(client redis.UniversalClient) *Storage {
	return NewStorageWithPrefix(client, DefaultPrefix)
}

// NewStorageWithPrefix creates a Storage with a custom key prefix.
func NewStorageWithPrefix(client redis.UniversalClient, prefix string) *Storage {
	return &Storage{client: client, prefix: prefix}
}

func (s *Storage) key(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}
	profile, ok := domainauth.ProfileFromContext(ctx)
	if !ok {
		return "", ports.ErrNoProfile
	}
	return s.prefix + profile + ":" + key, nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	k, err := s.key(ctx, key)
	if err != nil {
		return "", err
	}

	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (s *Storage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	k, err := s.key(ctx, key)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, k, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		k, err := s.key(ctx, key)
		if err != nil {
			return err
		}
		full = append(full, k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
