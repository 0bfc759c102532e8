package cryptoutil

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i) + seed
	}
	return key
}

func TestAESGCMEncryptor_EncryptDecrypt(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey(0))
	require.NoError(t, err)

	plaintext := []byte("my secret value")
	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)

	// Verify it has the v1 prefix
	assert.True(t, strings.HasPrefix(ciphertext, "v1:"))
	assert.NotContains(t, ciphertext, "my secret value")

	decrypted, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAESGCMEncryptor_NonDeterministic(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey(0))
	require.NoError(t, err)

	a, err := enc.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAESGCMEncryptor_ForeignKey(t *testing.T) {
	enc1, err := NewAESGCMEncryptor(testKey(0))
	require.NoError(t, err)
	enc2, err := NewAESGCMEncryptor(testKey(1))
	require.NoError(t, err)

	ciphertext, err := enc1.Encrypt([]byte("token"))
	require.NoError(t, err)

	_, err = enc2.Decrypt(ciphertext)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestAESGCMEncryptor_RejectsNoopCiphertext(t *testing.T) {
	enc, err := NewAESGCMEncryptor(testKey(0))
	require.NoError(t, err)

	forged := noopPrefix + base64.StdEncoding.EncodeToString([]byte(`"ADMIN"`))
	_, err = enc.Decrypt(forged)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestAESGCMEncryptor_InvalidKey(t *testing.T) {
	// Key too short
	_, err := NewAESGCMEncryptor([]byte("short"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 32 bytes")

	// Key too long
	_, err = NewAESGCMEncryptor(make([]byte, 64))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 32 bytes")
}

func TestAESGCMEncryptor_InvalidCiphertext(t *testing.T) {
	enc, err := NewAESGCMEncryptor(make([]byte, 32))
	require.NoError(t, err)

	// Unknown version
	_, err = enc.Decrypt("v2:somedata")
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "unknown version")

	// Invalid base64
	_, err = enc.Decrypt("v1:!!!invalid!!!")
	require.ErrorIs(t, err, ErrMalformed)

	// Ciphertext too short
	_, err = enc.Decrypt("v1:" + base64.StdEncoding.EncodeToString([]byte("x")))
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "too short")

	// Tampered payload
	ct, err := enc.Encrypt([]byte("payload"))
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ct, "v1:"))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = enc.Decrypt("v1:" + base64.StdEncoding.EncodeToString(raw))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestKeyFromSecret(t *testing.T) {
	raw := testKey(7)
	key, err := KeyFromSecret(hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, key, "hex-encoded 32-byte secrets are used as-is")

	key, err = KeyFromSecret("correct horse battery staple")
	require.NoError(t, err)
	assert.Len(t, key, 32)

	again, err := KeyFromSecret("correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, key, again)

	// Short hex is hashed, not used directly.
	key, err = KeyFromSecret("abcd")
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = KeyFromSecret("")
	require.Error(t, err)
}

func TestNoopEncryptor_EncryptDecrypt(t *testing.T) {
	enc := NoopEncryptor{}

	plaintext := []byte("test value")
	ciphertext, err := enc.Encrypt(plaintext)
	require.NoError(t, err)

	// Verify it has the noop prefix
	assert.Contains(t, ciphertext, "noop:")

	decrypted, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestNoopEncryptor_InvalidCiphertext(t *testing.T) {
	enc := NoopEncryptor{}

	// Missing noop prefix
	_, err := enc.Decrypt("v1:somedata")
	require.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "invalid noop ciphertext")
}

func TestJSONRoundTrip(t *testing.T) {
	enc, err := NewFromSecret("passphrase")
	require.NoError(t, err)

	type record struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	in := record{Token: "abc.def.ghi", Role: "ADMIN"}

	ct, err := EncryptJSON(enc, in)
	require.NoError(t, err)

	var out record
	require.NoError(t, DecryptJSON(enc, ct, &out))
	assert.Equal(t, in, out)
}

func TestDecryptJSON_InvalidJSON(t *testing.T) {
	enc := NoopEncryptor{}
	ct, err := enc.Encrypt([]byte("{not json"))
	require.NoError(t, err)

	var out map[string]any
	err = DecryptJSON(enc, ct, &out)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecryptJSON_NotProducedByEncrypt(t *testing.T) {
	enc, err := NewFromSecret("passphrase")
	require.NoError(t, err)

	var out string
	require.ErrorIs(t, DecryptJSON(enc, "U2FsdGVkX1+not-ours", &out), ErrMalformed)
}
