package config

import (
	"fmt"
	"strings"
)

// StorageMode selects where profile storage lives.
type StorageMode string

const (
	// StorageModeRedis keeps profile storage in Redis (survives restarts, shared by replicas).
	StorageModeRedis StorageMode = "redis"
	// StorageModeMemory keeps profile storage in process (development only).
	StorageModeMemory StorageMode = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageMode.
func (m *StorageMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*m = StorageMode(v)
		return nil
	default:
		return fmt.Errorf("invalid StorageMode: %q (valid options: redis, memory)", v)
	}
}

// StorageConfig selects and namespaces profile storage.
type StorageConfig struct {
	Mode StorageMode `env:"STORAGE_MODE" envDefault:"redis"`

	// KeyPrefix namespaces profile keys in Redis.
	KeyPrefix string `env:"STORAGE_KEY_PREFIX" envDefault:"ims:profile:"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
