package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/medhub/clinic-frontdesk/internal/logging"
)

// Store is the persistence surface the lifecycle service needs
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListUnverified(ctx context.Context) ([]*User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles the admin side of the account lifecycle: listing accounts,
// approving new ones, and rejecting (deleting) them.
type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns every account
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

// ListUnverified returns accounts still waiting for approval
func (s *Service) ListUnverified(ctx context.Context) ([]*User, error) {
	return s.store.ListUnverified(ctx)
}

// Verify approves an account so it can log in. Idempotent: verifying an
// already-verified account succeeds.
func (s *Service) Verify(ctx context.Context, id uuid.UUID) error {
	if err := s.store.MarkVerified(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to verify user: %w", err)
	}

	s.logger.Info("user verified", "user_id", id)
	return nil
}

// Reject permanently removes an account and all of its sessions. Irreversible;
// the UI is expected to confirm before calling this.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to reject user: %w", err)
	}

	s.logger.Info("user rejected and removed", "user_id", id)
	return nil
}
