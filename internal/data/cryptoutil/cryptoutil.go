package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is returned (wrapped) when a ciphertext cannot be opened: it was
// not produced by Encrypt, was produced under another key, or was tampered with.
var ErrMalformed = errors.New("malformed ciphertext")

// Encryptor encrypts and decrypts opaque byte payloads into printable strings.
type Encryptor interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

// AESGCMEncryptor implements Encryptor using AES-256-GCM.
type AESGCMEncryptor struct {
	aead cipher.AEAD
}

const (
	// Versioned prefix to allow future key/algorithm rotations.
	cipherPrefixV1 = "v1:"
	noopPrefix     = "noop:"

	keySize = 32
)

// NewAESGCMEncryptor constructs a new AESGCMEncryptor. Key must be 32 bytes (AES-256).
func NewAESGCMEncryptor(key []byte) (*AESGCMEncryptor, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("aes-gcm key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(append([]byte(nil), key...))
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMEncryptor{aead: aead}, nil
}

// KeyFromSecret turns a configured secret into an AES-256 key. A hex string
// encoding exactly 32 bytes is used as-is; anything else is hashed with SHA-256.
func KeyFromSecret(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is required")
	}
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) == keySize {
		return decoded, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], nil
}

// NewFromSecret builds an AESGCMEncryptor from a configured secret.
func NewFromSecret(secret string) (*AESGCMEncryptor, error) {
	key, err := KeyFromSecret(secret)
	if err != nil {
		return nil, err
	}
	return NewAESGCMEncryptor(key)
}

// Encrypt encrypts plaintext with a random nonce and returns a versioned base64 string.
// Encrypting the same plaintext twice yields different ciphertexts.
func (e *AESGCMEncryptor) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	// nonce||ciphertext
	buf := e.aead.Seal(nonce, nonce, plaintext, nil)
	return cipherPrefixV1 + base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt decrypts a versioned base64 string created by Encrypt.
func (e *AESGCMEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	b64, ok := strings.CutPrefix(ciphertext, cipherPrefixV1)
	if !ok {
		return nil, fmt.Errorf("%w: unknown version (prefix: %s)", ErrMalformed, prefixOf(ciphertext))
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("%w: too short", ErrMalformed)
	}
	pt, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return pt, nil
}

func prefixOf(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// NoopEncryptor is useful for tests; it stores plaintext with a prefix marker.
type NoopEncryptor struct{}

func (NoopEncryptor) Encrypt(plaintext []byte) (string, error) {
	return noopPrefix + base64.StdEncoding.EncodeToString(plaintext), nil
}

func (NoopEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	b64, ok := strings.CutPrefix(ciphertext, noopPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: invalid noop ciphertext", ErrMalformed)
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return data, nil
}

// EncryptJSON JSON-encodes v and encrypts the result.
func EncryptJSON(enc Encryptor, v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return enc.Encrypt(raw)
}

// DecryptJSON decrypts ciphertext and JSON-decodes it into dst. Invalid JSON
// after a successful decrypt is reported as ErrMalformed too.
func DecryptJSON(enc Encryptor, ciphertext string, dst any) error {
	raw, err := enc.Decrypt(ciphertext)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: decode value: %w", ErrMalformed, err)
	}
	return nil
}
