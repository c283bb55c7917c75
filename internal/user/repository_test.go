package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/clinic-frontdesk/internal/database"
)

// bun inlines query arguments for the pg dialect, so expectations match on
// loose SQL shape rather than placeholder args.
func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRepository(database.NewBunDB(db)), mock, db
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "role", "verified", "created_at", "updated_at"}
}

func TestRepository_Create(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(id.String(), "Amina", "amina@clinic.org", "hash", "VOLUNTEER", false, now, now)
	mock.ExpectQuery(`(?s)INSERT INTO "users"`).WillReturnRows(rows)

	got, err := repo.Create(context.Background(), "Amina", "amina@clinic.org", "hash", RoleVolunteer)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, RoleVolunteer, got.Role)
	assert.False(t, got.Verified, "accounts start unverified")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT INTO "users"`).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))

	_, err := repo.Create(context.Background(), "Amina", "amina@clinic.org", "hash", RoleVolunteer)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(id.String(), "Amina", "amina@clinic.org", "hash", "ADMIN", true, now, now)
	mock.ExpectQuery(`(?s)SELECT (.+) FROM "users"`).WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "amina@clinic.org")
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, RoleAdmin, got.Role)
	assert.True(t, got.Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByEmail(context.Background(), "ghost@clinic.org")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListUnverified(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userColumns()).
		AddRow(uuid.New().String(), "Bilal", "bilal@clinic.org", "hash", "VOLUNTEER", false, now, now).
		AddRow(uuid.New().String(), "Dawood", "dawood@clinic.org", "hash", "VOLUNTEER", false, now.Add(-time.Hour), now)
	mock.ExpectQuery(`(?s)SELECT (.+) FROM "users"(.+)ORDER BY (.+)created_at(.+)DESC`).WillReturnRows(rows)

	got, err := repo.ListUnverified(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Bilal", got[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkVerified(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE "users"(.+)SET(.+)verified`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkVerified(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkVerified_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE "users"(.+)SET(.+)verified`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkVerified(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// sessions go first, then the user row, in one transaction
	mock.ExpectBegin()
	mock.ExpectExec(`(?s)DELETE FROM "sessions"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`(?s)DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)DELETE FROM "sessions"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`(?s)DELETE FROM "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
