package bootstrap

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/ims-ui/config"
)

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("defaults in development", func(t *testing.T) {
		t.Setenv("DEV", "true")
		t.Setenv("IMS_API_BASE_URL", "http://backend.test/api/")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.IsDev)
		assert.Equal(t, "http://backend.test/api", cfg.Backend.BaseURL)
		assert.Equal(t, "ims_profile", cfg.Session.ProfileCookie)
		assert.Equal(t, config.StorageModeRedis, cfg.Storage.Mode)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
	})

	t.Run("production needs a session key", func(t *testing.T) {
		t.Setenv("DEV", "false")
		t.Setenv("NODE_ENV", "production")
		t.Setenv("SESSION_ENCRYPTION_KEY", "")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_ENCRYPTION_KEY")
	})

	t.Run("bad storage mode", func(t *testing.T) {
		t.Setenv("DEV", "true")
		t.Setenv("STORAGE_MODE", "postgres")

		_, err := LoadConfig()
		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("json outside development", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, config.ObservabilityConfig{LogLevel: "warn"}, false)
		logger.Info("hidden")
		logger.Warn("shown", "profile", "p-1")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "shown", entry["msg"])
		assert.Equal(t, "p-1", entry["profile"])
	})

	t.Run("text in development", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, config.ObservabilityConfig{LogLevel: "debug"}, true)
		logger.Debug("details")
		assert.Contains(t, buf.String(), "msg=details")
	})
}
