package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/arturffsantos/gympoint/internal/models"
)

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, email, password_hash").
		WithArgs("admin@gympoint.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("usr-1", "Admin", "admin@gympoint.com", "hash", now, now))

	user, err := repo.FindByEmail(context.Background(), "admin@gympoint.com")
	require.NoError(t, err)
	require.Equal(t, "usr-1", user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT id, name, email, password_hash").
		WithArgs("nobody@gympoint.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}))

	_, err := repo.FindByEmail(context.Background(), "nobody@gympoint.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{ID: "usr-1", Name: "Admin", Email: "admin@gympoint.com", PasswordHash: "hash"}
	err := repo.Update(context.Background(), user)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
