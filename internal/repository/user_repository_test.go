package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduplatform-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

var userRowColumns = []string{"email", "name", "password_hash", "role", "level", "institution", "profile", "created_at"}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows(userRowColumns).
		AddRow("guru@x.com", "Guru", "hash", "GURU", "SMA", "SMA 1", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("guru@x.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "guru@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuru, user.Role)
	assert.Equal(t, "SMA 1", user.Institution)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("none@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "none@x.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryFindByEmails(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows(userRowColumns).
		AddRow("a@x.com", "A", "h", "SISWA", "SMA", "SMA 1", nil, time.Now()).
		AddRow("b@x.com", "B", "h", "SISWA", "SMA", "SMA 1", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ANY($1)")).
		WillReturnRows(rows)

	users, err := repo.FindByEmails(context.Background(), []string{"a@x.com", "b@x.com"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	empty, err := repo.FindByEmails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, name, password_hash, role, level, institution, profile, created_at)")).
		WithArgs("s@x.com", "Siswa", "hash", models.RoleSiswa, "SMA", "SMA 1", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{Email: "s@x.com", Name: "Siswa", PasswordHash: "hash", Role: models.RoleSiswa, Level: "SMA", Institution: "SMA 1"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
