package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/medhub/clinic-frontdesk/internal/httputil"
	"github.com/medhub/clinic-frontdesk/internal/logging"
	"github.com/medhub/clinic-frontdesk/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// CurrentUserContextKey holds the session-resolved *user.User
	CurrentUserContextKey ContextKey = "current_user"
	// SessionTokenContextKey holds the raw session token for the request
	SessionTokenContextKey ContextKey = "session_token"
)

// UserResolver loads the account behind a validated session
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Middleware enforces authentication on API routes. Unlike the page gate,
// which only redirects, this is the security boundary: every protected call
// goes through a full session validation and user load.
type Middleware struct {
	sessions *SessionManager
	users    UserResolver
}

func NewMiddleware(sessions *SessionManager, users UserResolver) *Middleware {
	return &Middleware{sessions: sessions, users: users}
}

// RequireSession validates the session cookie and resolves the current user
// into the request context. Stale-but-present cookies that slipped past the
// page gate are rejected here.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := GetSessionTokenFromCookie(r)
		if err != nil {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		session, err := m.sessions.Validate(r.Context(), token)
		if err != nil {
			if errors.Is(err, ErrSessionInvalid) {
				httputil.RespondErrorWithCode(w, "session is invalid or expired", httputil.CodeSessionInvalid, http.StatusUnauthorized)
				return
			}
			logger := logging.GetLoggerFromContext(r.Context())
			logger.Error("session validation failed", "error", err.Error())
			httputil.RespondErrorWithCode(w, "unexpected error", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		currentUser, err := m.users.GetByID(r.Context(), session.UserID)
		if err != nil {
			// A session row without a user should be impossible with the FK
			// cascade in place; treat it as an invalid session either way.
			if errors.Is(err, user.ErrNotFound) {
				httputil.RespondErrorWithCode(w, "session is invalid or expired", httputil.CodeSessionInvalid, http.StatusUnauthorized)
				return
			}
			logger := logging.GetLoggerFromContext(r.Context())
			logger.Error("failed to load session user", "error", err.Error())
			httputil.RespondErrorWithCode(w, "unexpected error", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), CurrentUserContextKey, currentUser)
		ctx = context.WithValue(ctx, SessionTokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin restricts a route to admin users. Must run after
// RequireSession.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		currentUser, ok := GetUserFromContext(r.Context())
		if !ok {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		if !currentUser.IsAdmin() {
			httputil.RespondErrorWithCode(w, "admin access required", httputil.CodeForbidden, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext extracts the session-resolved user from the request context
func GetUserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(CurrentUserContextKey).(*user.User)
	return u, ok
}

// GetSessionTokenFromContext extracts the raw session token from the request context
func GetSessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenContextKey).(string)
	return token, ok
}
