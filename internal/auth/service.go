package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"github.com/medhub/clinic-frontdesk/internal/logging"
	"github.com/medhub/clinic-frontdesk/internal/user"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrPendingVerification = errors.New("account is pending verification by an admin")
	ErrNameRequired        = errors.New("name is required")
	ErrEmailRequired       = errors.New("email is required")
	ErrInvalidEmailFormat  = errors.New("invalid email format")
	ErrPasswordRequired    = errors.New("password is required")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
)

// bcryptCost matches the deliberate-slowness tradeoff used for staff accounts.
// Hashing runs on its own goroutine-scheduled request, so the cost only bounds
// per-login latency, not throughput.
const bcryptCost = 10

// UserStore defines the user persistence surface the auth service needs
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string, role user.Role) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Service handles authentication business logic
type Service struct {
	users    UserStore
	sessions *SessionManager
	logger   *logging.Logger
}

func NewService(users UserStore, sessions *SessionManager, logger *logging.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Signup creates a new unverified account. No session is created: the account
// cannot log in until an admin verifies it. The email uniqueness check is
// delegated entirely to the insert so two concurrent signups cannot both pass
// a read-then-write check.
func (s *Service) Signup(ctx context.Context, name, email, password string, role user.Role) (*user.User, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, name, email, passwordHash, role)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user signed up, awaiting verification", "user_id", newUser.ID, "role", newUser.Role)

	return newUser, nil
}

// Login authenticates a user and creates a session. Unknown email and wrong
// password collapse into the same ErrInvalidCredentials so the response never
// reveals which half failed. The password is checked before the verified
// flag: PendingVerification is only reported to someone who already proved
// they own the account.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, *Session, error) {
	if email == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !verifyPassword(existingUser.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	if !existingUser.Verified {
		return nil, nil, ErrPendingVerification
	}

	session, err := s.sessions.Create(ctx, existingUser.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", existingUser.ID)

	return existingUser, session, nil
}

// Logout revokes the session behind the given token. Never fails the
// user-visible flow: a token with no matching session is already logged out.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Invalidate(ctx, token)
}

// hashPassword creates a bcrypt hash of the password. bcrypt embeds a
// per-record salt in the hash itself.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword checks a plaintext password against a stored bcrypt hash
func verifyPassword(encodedHash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
