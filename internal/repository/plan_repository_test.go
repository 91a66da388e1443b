package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/arturffsantos/gympoint/internal/models"
)

func TestPlanRepositoryCreateTranslatesDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO plans")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Plan{Title: "Gold", Duration: 3, Price: 109})
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryDeleteTranslatesForeignKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM plans WHERE id = $1")).
		WithArgs("plan-1").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), "plan-1")
	require.ErrorIs(t, err, ErrForeignKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryExistsByTitle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM plans WHERE title = $1 LIMIT 1")).
		WithArgs("Gold").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByTitle(context.Background(), "Gold", "")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, title, duration, price").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "duration", "price", "created_at", "updated_at"}).
			AddRow("plan-1", "Start", 1, 129.0, now, now).
			AddRow("plan-2", "Gold", 3, 109.0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	plans, total, err := repo.List(context.Background(), models.PlanFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, plans, 2)
	require.Equal(t, "Start", plans[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
