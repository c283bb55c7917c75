package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/medhub/clinic-frontdesk/internal/database"
)

// SessionRepository handles session persistence in Postgres
type SessionRepository struct {
	db *bun.DB
}

func NewSessionRepository(db *bun.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert stores a new session row
func (r *SessionRepository) Insert(ctx context.Context, session *Session) error {
	dbSession := &database.Session{
		Token:     session.Token,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}

	_, err := r.db.NewInsert().
		Model(dbSession).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	session.CreatedAt = dbSession.CreatedAt
	return nil
}

// GetByToken retrieves a session by its token
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*Session, error) {
	dbSession := new(database.Session)
	err := r.db.NewSelect().
		Model(dbSession).
		Where("token = ?", token).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}

	return &Session{
		Token:     dbSession.Token,
		UserID:    dbSession.UserID,
		ExpiresAt: dbSession.ExpiresAt,
		CreatedAt: dbSession.CreatedAt,
	}, nil
}

// DeleteByToken removes a session row. Deleting an absent row is not an
// error; zero rows affected is a normal outcome.
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.NewDelete().
		Model((*database.Session)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
