package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medhub/clinic-frontdesk/internal/logging"
)

var (
	ErrIDRequired   = errors.New("patient id is required")
	ErrNameRequired = errors.New("patient name is required")
	ErrInvalidAge   = errors.New("patient age must be between 0 and 150")
)

// Store is the persistence surface the patient service needs
type Store interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	Search(ctx context.Context, query string) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) (*Patient, error)
	Delete(ctx context.Context, id string) error
}

// Service handles patient record management
type Service struct {
	store  Store
	cache  *Cache
	logger *logging.Logger
}

func NewService(store Store, cache *Cache, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

func validate(p *Patient) error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrIDRequired
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if p.Age < 0 || p.Age > 150 {
		return ErrInvalidAge
	}
	return nil
}

// Create registers a new patient
func (s *Service) Create(ctx context.Context, p *Patient) (*Patient, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info("patient created", "patient_id", created.ID)
	return created, nil
}

// Get returns a patient by their card identifier
func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.store.GetByID(ctx, id)
}

// GetByCard resolves a scanned card number to a patient. Reads through the
// cache; a miss or redis failure falls back to the database.
func (s *Service) GetByCard(ctx context.Context, cardNumber string) (*Patient, error) {
	if cached := s.cache.GetByCard(ctx, cardNumber); cached != nil {
		return cached, nil
	}

	p, err := s.store.GetByCardNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	s.cache.SetByCard(ctx, p)
	return p, nil
}

// List returns all patients, or those matching the query when one is given
func (s *Service) List(ctx context.Context, query string) ([]*Patient, error) {
	if strings.TrimSpace(query) != "" {
		return s.store.Search(ctx, query)
	}
	return s.store.List(ctx)
}

// Update overwrites a patient record and drops any stale cache entry
func (s *Service) Update(ctx context.Context, p *Patient) (*Patient, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	// The card number may itself change, so invalidate both the previous and
	// the new mapping.
	if existing, err := s.store.GetByID(ctx, p.ID); err == nil {
		s.cache.InvalidateCard(ctx, existing.CardNumber)
	}

	updated, err := s.store.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCard(ctx, updated.CardNumber)

	s.logger.Info("patient updated", "patient_id", updated.ID)
	return updated, nil
}

// Delete removes a patient record and its cache entry
func (s *Service) Delete(ctx context.Context, id string) error {
	if existing, err := s.store.GetByID(ctx, id); err == nil {
		s.cache.InvalidateCard(ctx, existing.CardNumber)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("patient deleted", "patient_id", id)
	return nil
}
