package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medhub/clinic-frontdesk/internal/logging"
)

var (
	// ErrSessionInvalid covers both unknown and expired tokens; callers never
	// learn which, the session is simply not usable.
	ErrSessionInvalid = errors.New("session is invalid or expired")
)

// Session is a server-side login session. The token is an opaque bearer
// credential carried in a cookie.
type Session struct {
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session's expiry has passed
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionStore defines the persistence surface for sessions
type SessionStore interface {
	Insert(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

// SessionManager mints, validates, and revokes session tokens
type SessionManager struct {
	store    SessionStore
	logger   *logging.Logger
	duration time.Duration
}

func NewSessionManager(store SessionStore, logger *logging.Logger, duration time.Duration) *SessionManager {
	return &SessionManager{
		store:    store,
		logger:   logger,
		duration: duration,
	}
}

// GenerateToken creates a cryptographically secure random session token.
// 32 bytes of entropy, URL-safe encoded.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Create mints a fresh token and persists a session for the given user. A
// foreign-key violation means the caller passed a user that does not exist,
// which is a bug upstream; the error is surfaced, never swallowed.
func (m *SessionManager) Create(ctx context.Context, userID uuid.UUID) (*Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.duration),
	}

	if err := m.store.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Validate resolves a token to a live session. Expired rows are cleaned up
// lazily: the stale row is deleted on detection, which bounds storage growth
// without a background sweeper. The cleanup is best-effort; if the delete
// fails the token is still rejected.
func (m *SessionManager) Validate(ctx context.Context, token string) (*Session, error) {
	session, err := m.store.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.IsExpired() {
		if err := m.store.DeleteByToken(ctx, token); err != nil {
			m.logger.Warn("failed to delete expired session", "error", err.Error())
		}
		return nil, ErrSessionInvalid
	}

	return session, nil
}

// Invalidate deletes a session. Idempotent: revoking a token that no longer
// exists is a success.
func (m *SessionManager) Invalidate(ctx context.Context, token string) error {
	if err := m.store.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// Duration returns the configured session lifetime
func (m *SessionManager) Duration() time.Duration {
	return m.duration
}
