package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/models"
	"github.com/arturffsantos/gympoint/internal/repository"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
)

type mockCheckinRepo struct {
	checkins  []models.Checkin
	createErr error
}

func (m *mockCheckinRepo) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.Checkin, int, error) {
	return m.checkins, len(m.checkins), nil
}

func (m *mockCheckinRepo) Create(ctx context.Context, studentID string, limit int, window time.Duration) (*models.Checkin, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	checkin := models.Checkin{ID: "chk-1", StudentID: studentID, CreatedAt: time.Now().UTC()}
	m.checkins = append(m.checkins, checkin)
	return &checkin, nil
}

func TestCheckinServiceCreate(t *testing.T) {
	repo := &mockCheckinRepo{}
	svc := NewCheckinService(repo, zap.NewNop())

	checkin, err := svc.Create(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", checkin.StudentID)
}

func TestCheckinServiceCreateNoActivePlan(t *testing.T) {
	repo := &mockCheckinRepo{createErr: repository.ErrNoActiveRegistration}
	svc := NewCheckinService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), "stu-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Student does not have active plan", appErr.Message)
}

func TestCheckinServiceCreateLimitReached(t *testing.T) {
	repo := &mockCheckinRepo{createErr: repository.ErrCheckinLimitReached}
	svc := NewCheckinService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), "stu-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "Max number of checkins reached (5) in 7 days", appErr.Message)
}

func TestCheckinServiceList(t *testing.T) {
	repo := &mockCheckinRepo{checkins: []models.Checkin{{ID: "chk-1", StudentID: "stu-1"}}}
	svc := NewCheckinService(repo, zap.NewNop())

	checkins, pagination, err := svc.List(context.Background(), "stu-1", 0)
	require.NoError(t, err)
	assert.Len(t, checkins, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}
