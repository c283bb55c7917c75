package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/medhub/clinic-frontdesk/internal/database"
)

var (
	ErrNotFound    = errors.New("patient not found")
	ErrDuplicateID = errors.New("patient id already exists")
)

// Repository handles patient data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new patient record
func (r *Repository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	dbPatient := &database.Patient{
		ID:          p.ID,
		CardNumber:  p.CardNumber,
		Name:        p.Name,
		Age:         p.Age,
		PhoneNumber: p.PhoneNumber,
		CNIC:        p.CNIC,
		Comments:    p.Comments,
	}

	_, err := r.db.NewInsert().
		Model(dbPatient).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	return mapDBPatientToModel(dbPatient), nil
}

// GetByID retrieves a patient by their card identifier
func (r *Repository) GetByID(ctx context.Context, id string) (*Patient, error) {
	dbPatient := new(database.Patient)
	err := r.db.NewSelect().
		Model(dbPatient).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient by id: %w", err)
	}

	return mapDBPatientToModel(dbPatient), nil
}

// GetByCardNumber retrieves a patient by card number
func (r *Repository) GetByCardNumber(ctx context.Context, cardNumber string) (*Patient, error) {
	dbPatient := new(database.Patient)
	err := r.db.NewSelect().
		Model(dbPatient).
		Where("card_number = ?", cardNumber).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient by card number: %w", err)
	}

	return mapDBPatientToModel(dbPatient), nil
}

// List returns all patients, newest first
func (r *Repository) List(ctx context.Context) ([]*Patient, error) {
	var dbPatients []*database.Patient
	err := r.db.NewSelect().
		Model(&dbPatients).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	patients := make([]*Patient, 0, len(dbPatients))
	for _, dbp := range dbPatients {
		patients = append(patients, mapDBPatientToModel(dbp))
	}
	return patients, nil
}

// Search matches the query against id, name, card number, phone, and CNIC
func (r *Repository) Search(ctx context.Context, query string) ([]*Patient, error) {
	pattern := "%" + query + "%"

	var dbPatients []*database.Patient
	err := r.db.NewSelect().
		Model(&dbPatients).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("id ILIKE ?", pattern).
				WhereOr("name ILIKE ?", pattern).
				WhereOr("card_number ILIKE ?", pattern).
				WhereOr("phone_number ILIKE ?", pattern).
				WhereOr("cnic ILIKE ?", pattern)
		}).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}

	patients := make([]*Patient, 0, len(dbPatients))
	for _, dbp := range dbPatients {
		patients = append(patients, mapDBPatientToModel(dbp))
	}
	return patients, nil
}

// Update overwrites the mutable fields of a patient record
func (r *Repository) Update(ctx context.Context, p *Patient) (*Patient, error) {
	result, err := r.db.NewUpdate().
		Model((*database.Patient)(nil)).
		Set("card_number = ?", p.CardNumber).
		Set("name = ?", p.Name).
		Set("age = ?", p.Age).
		Set("phone_number = ?", p.PhoneNumber).
		Set("cnic = ?", p.CNIC).
		Set("comments = ?", p.Comments).
		Set("updated_at = NOW()").
		Where("id = ?", p.ID).
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, p.ID)
}

// Delete removes a patient record
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.NewDelete().
		Model((*database.Patient)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBPatientToModel converts database model to domain model
func mapDBPatientToModel(dbp *database.Patient) *Patient {
	return &Patient{
		ID:          dbp.ID,
		CardNumber:  dbp.CardNumber,
		Name:        dbp.Name,
		Age:         dbp.Age,
		PhoneNumber: dbp.PhoneNumber,
		CNIC:        dbp.CNIC,
		Comments:    dbp.Comments,
		CreatedAt:   dbp.CreatedAt,
		UpdatedAt:   dbp.UpdatedAt,
	}
}
