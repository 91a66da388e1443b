package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCheckinRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCheckinRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND canceled_at IS NULL AND end_date > $2)")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM checkins WHERE student_id = $1 AND created_at >= $2")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkins")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	checkin, err := repo.Create(context.Background(), "stu-1", 5, 7*24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, "stu-1", checkin.StudentID)
	require.NotEmpty(t, checkin.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckinRepositoryCreateNoActiveRegistration(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCheckinRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), "stu-1", 5, 7*24*time.Hour)
	require.ErrorIs(t, err, ErrNoActiveRegistration)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckinRepositoryCreateLimitReached(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCheckinRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM checkins")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), "stu-1", 5, 7*24*time.Hour)
	require.ErrorIs(t, err, ErrCheckinLimitReached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckinRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCheckinRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, created_at FROM checkins")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "created_at"}).
			AddRow("chk-1", "stu-1", now).
			AddRow("chk-2", "stu-1", now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM checkins WHERE student_id = $1")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	checkins, total, err := repo.ListByStudent(context.Background(), "stu-1", 1, 20)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, checkins, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
