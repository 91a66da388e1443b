package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/arturffsantos/gympoint/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRegistrationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND canceled_at IS NULL AND end_date > $2)")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	registration := &models.Registration{
		StudentID: "stu-1",
		PlanID:    "plan-1",
		StartDate: time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, time.April, 15, 0, 0, 0, 0, time.UTC),
		Price:     327,
	}
	err := repo.Create(context.Background(), registration)
	require.NoError(t, err)
	require.NotEmpty(t, registration.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCreateMissingStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Registration{StudentID: "ghost", PlanID: "plan-1"})
	require.ErrorIs(t, err, ErrStudentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCreateOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students WHERE id = $1 FOR UPDATE")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("stu-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND canceled_at IS NULL AND end_date > $2)")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Registration{StudentID: "stu-1", PlanID: "plan-1"})
	require.ErrorIs(t, err, ErrOverlappingRegistration)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryHasActiveOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	start := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND canceled_at IS NULL AND end_date > $2)")).
		WithArgs("stu-1", start).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	overlaps, err := repo.HasActiveOverlap(context.Background(), "stu-1", start)
	require.NoError(t, err)
	require.True(t, overlaps)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "student_id", "plan_id", "start_date", "end_date", "price",
		"canceled_at", "created_at", "updated_at", "student_name", "plan_title", "is_active",
	}).AddRow("reg-1", "stu-1", "plan-1", now, now.AddDate(0, 3, 0), 327.0, nil, now, now, "Ana", "Gold", true)

	mock.ExpectQuery("SELECT r.id, r.student_id").WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	registrations, total, err := repo.List(context.Background(), models.RegistrationFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, registrations, 1)
	require.Equal(t, "Ana", registrations[0].StudentName)
	require.True(t, registrations[0].IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}
