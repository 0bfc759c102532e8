package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/ims-ui/internal/data/cryptoutil"
)

// ErrEncryptionKeyRequired is returned outside development when no session key is configured.
var ErrEncryptionKeyRequired = errors.New("session encryption key is required")

// CreateEncryptor creates the AES-GCM encryptor protecting stored sessions.
// A hex string encoding 32 bytes is used as the key directly; anything else is
// hashed. Only development may run without a key, and then sessions are stored
// with the noop encryptor.
//
//nolint:ireturn // Returning interface is intentional for encryptor abstraction
func CreateEncryptor(key string, isDev bool, logger *slog.Logger) (cryptoutil.Encryptor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		if !isDev {
			return nil, ErrEncryptionKeyRequired
		}
		logger.Warn("session encryption key is empty, storing sessions unencrypted (development only)")
		return cryptoutil.NoopEncryptor{}, nil
	}

	enc, err := cryptoutil.NewFromSecret(key)
	if err != nil {
		return nil, fmt.Errorf("create session encryptor: %w", err)
	}
	return enc, nil
}
