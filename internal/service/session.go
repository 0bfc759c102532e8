package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/target/ims-ui/internal/data/cryptoutil"
	domainauth "github.com/target/ims-ui/internal/domain/auth"
	"github.com/target/ims-ui/internal/observability/metrics"
	"github.com/target/ims-ui/internal/ports"
)

// Storage keys. The session lives under one key; the legacy per-field keys are
// still read when no combined record exists and are removed on every write.
const (
	SessionKey     = "session"
	legacyTokenKey = "token"
	legacyRoleKey  = "role"
)

var (
	// ErrCorruptSession is returned (wrapped) when a stored session exists but
	// cannot be decrypted or decoded.
	ErrCorruptSession = errors.New("session record is corrupted")
)

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Storage   ports.Storage
	Encryptor cryptoutil.Encryptor // defaults to cryptoutil.NoopEncryptor
	Logger    *slog.Logger
	// MaxTTL caps how long a record is kept in storage. Zero keeps records
	// until the token's exp claim, or forever for opaque tokens.
	MaxTTL time.Duration
	Now    func() time.Time
}

// SessionStore owns the client-held bearer token and role claim of one profile,
// persisted encrypted in profile-scoped storage. The profile comes from ctx.
type SessionStore struct {
	storage ports.Storage
	enc     cryptoutil.Encryptor
	logger  *slog.Logger
	maxTTL  time.Duration
	now     func() time.Time
}

var _ ports.SessionManager = (*SessionStore)(nil)

// NewSessionStore constructs a SessionStore.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	enc := opts.Encryptor
	if enc == nil {
		enc = cryptoutil.NoopEncryptor{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		storage: opts.Storage,
		enc:     enc,
		logger:  logger.With("component", "session_store"),
		maxTTL:  opts.MaxTTL,
		now:     now,
	}
}

// Encrypt JSON-encodes v and encrypts it with the store's key.
func (s *SessionStore) Encrypt(v any) (string, error) {
	return cryptoutil.EncryptJSON(s.enc, v)
}

// Decrypt reverses Encrypt into dst. Foreign, tampered or malformed input is an error.
func (s *SessionStore) Decrypt(ciphertext string, dst any) error {
	return cryptoutil.DecryptJSON(s.enc, ciphertext, dst)
}

// Lookup reads the session and reports which of the three states it is in.
// The error is nil for StateValid and StateAbsent; it wraps ErrCorruptSession
// for StateCorrupted and carries the storage failure otherwise.
func (s *SessionStore) Lookup(ctx context.Context) (domainauth.Session, domainauth.State, error) {
	sess, state, err := s.lookup(ctx)
	metrics.ObserveSessionRead(state.String())
	return sess, state, err
}

func (s *SessionStore) lookup(ctx context.Context) (domainauth.Session, domainauth.State, error) {
	raw, err := s.storage.Get(ctx, SessionKey)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return s.lookupLegacy(ctx)
	case err != nil:
		return domainauth.Session{}, domainauth.StateAbsent, fmt.Errorf("read session: %w", err)
	}

	var sess domainauth.Session
	if decErr := s.Decrypt(raw, &sess); decErr != nil {
		return domainauth.Session{}, domainauth.StateCorrupted, fmt.Errorf("%w: %w", ErrCorruptSession, decErr)
	}
	return sess, domainauth.StateValid, nil
}

// lookupLegacy reads the older layout where token and role were two
// independently encrypted JSON strings.
func (s *SessionStore) lookupLegacy(ctx context.Context) (domainauth.Session, domainauth.State, error) {
	var sess domainauth.Session
	found := false
	for _, field := range []struct {
		key string
		dst *string
	}{
		{legacyTokenKey, &sess.Token},
		{legacyRoleKey, (*string)(&sess.Role)},
	} {
		raw, err := s.storage.Get(ctx, field.key)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return domainauth.Session{}, domainauth.StateAbsent, fmt.Errorf("read %s: %w", field.key, err)
		}
		if decErr := s.Decrypt(raw, field.dst); decErr != nil {
			return domainauth.Session{}, domainauth.StateCorrupted, fmt.Errorf("%w: %s: %w", ErrCorruptSession, field.key, decErr)
		}
		found = true
	}
	if !found {
		return domainauth.Session{}, domainauth.StateAbsent, nil
	}
	return sess, domainauth.StateValid, nil
}

// Token returns the stored bearer token, or "" when there is none.
// A corrupted record yields an error wrapping ErrCorruptSession.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	sess, _, err := s.Lookup(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// Role returns the stored role claim, or "" when there is none.
func (s *SessionStore) Role(ctx context.Context) (domainauth.Role, error) {
	sess, _, err := s.Lookup(ctx)
	if err != nil {
		return "", err
	}
	return sess.Role, nil
}

// Save persists token and role together in a single write.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = tokenExpiry(sess.Token)
	}
	return s.write(ctx, sess)
}

// SaveToken replaces the token and keeps the stored role.
func (s *SessionStore) SaveToken(ctx context.Context, token string) error {
	sess, err := s.current(ctx)
	if err != nil {
		return err
	}
	sess.Token = token
	sess.ExpiresAt = tokenExpiry(token)
	return s.write(ctx, sess)
}

// SaveRole replaces the role and keeps the stored token.
func (s *SessionStore) SaveRole(ctx context.Context, role domainauth.Role) error {
	sess, err := s.current(ctx)
	if err != nil {
		return err
	}
	sess.Role = role
	return s.write(ctx, sess)
}

// current returns the session to modify. A corrupted record is replaced.
func (s *SessionStore) current(ctx context.Context) (domainauth.Session, error) {
	sess, state, err := s.Lookup(ctx)
	if state == domainauth.StateCorrupted {
		s.logger.WarnContext(ctx, "overwriting corrupted session", "error", err)
		return domainauth.Session{}, nil
	}
	if err != nil {
		return domainauth.Session{}, err
	}
	return sess, nil
}

// write stores the record. The exp claim only shortens the storage TTL; a
// claim already past by the local clock keeps MaxTTL and the backend's 401
// ends the session instead.
func (s *SessionStore) write(ctx context.Context, sess domainauth.Session) error {
	ttl := s.maxTTL
	if !sess.ExpiresAt.IsZero() {
		if until := sess.ExpiresAt.Sub(s.now()); until > 0 && (ttl <= 0 || until < ttl) {
			ttl = until
		}
	}

	ciphertext, err := s.Encrypt(sess)
	if err != nil {
		return fmt.Errorf("encrypt session: %w", err)
	}
	if err := s.storage.Set(ctx, SessionKey, ciphertext, ttl); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := s.storage.Remove(ctx, legacyTokenKey, legacyRoleKey); err != nil {
		return fmt.Errorf("remove legacy session keys: %w", err)
	}
	return nil
}

// ClearAuth removes every session key. It is idempotent.
func (s *SessionStore) ClearAuth(ctx context.Context) error {
	if err := s.storage.Remove(ctx, SessionKey, legacyTokenKey, legacyRoleKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Logout is the user-facing name for ClearAuth.
func (s *SessionStore) Logout(ctx context.Context) error {
	return s.ClearAuth(ctx)
}

// Access derives the route-guard access level. It never fails: unreadable or
// corrupted sessions count as unauthenticated and are logged.
func (s *SessionStore) Access(ctx context.Context) domainauth.Access {
	sess, state, err := s.Lookup(ctx)
	if err != nil {
		s.logReadFailure(ctx, state, err)
	}
	return domainauth.AccessFor(sess, state)
}

// IsAuthenticated reports whether a token is stored.
func (s *SessionStore) IsAuthenticated(ctx context.Context) bool {
	return s.Access(ctx) != domainauth.AccessUnauthenticated
}

// IsAdmin reports whether the stored role is exactly the admin role.
func (s *SessionStore) IsAdmin(ctx context.Context) bool {
	sess, state, err := s.Lookup(ctx)
	if err != nil {
		s.logReadFailure(ctx, state, err)
		return false
	}
	return sess.Role.IsAdmin()
}

func (s *SessionStore) logReadFailure(ctx context.Context, state domainauth.State, err error) {
	attrs := []any{"state", state.String(), "error", err}
	if profile, ok := domainauth.ProfileFromContext(ctx); ok {
		attrs = append(attrs, "profile", profile)
	}
	if state == domainauth.StateCorrupted {
		s.logger.WarnContext(ctx, "session unreadable, treating as logged out", attrs...)
		return
	}
	s.logger.ErrorContext(ctx, "session storage read failed", attrs...)
}

// tokenExpiry returns the exp claim of a JWT without verifying it, or the zero
// time for opaque tokens. The backend remains the authority on validity.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
