package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/models"
	"github.com/arturffsantos/gympoint/internal/repository"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
)

// Rate limit: a student may check in at most MaxCheckins times within the
// trailing CheckinWindowDays days, measured as a sliding window at request
// time rather than a calendar week.
const (
	MaxCheckins       = 5
	CheckinWindowDays = 7
)

type checkinRepository interface {
	ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.Checkin, int, error)
	Create(ctx context.Context, studentID string, limit int, window time.Duration) (*models.Checkin, error)
}

// CheckinService handles gym-visit recording.
type CheckinService struct {
	repo   checkinRepository
	logger *zap.Logger
}

// NewCheckinService constructs CheckinService.
func NewCheckinService(repo checkinRepository, logger *zap.Logger) *CheckinService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckinService{repo: repo, logger: logger}
}

// List returns a student's check-ins, newest first.
func (s *CheckinService) List(ctx context.Context, studentID string, page int) ([]models.Checkin, *models.Pagination, error) {
	page, size := normalizePagination(page, defaultPageSize)
	checkins, total, err := s.repo.ListByStudent(ctx, studentID, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list checkins")
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return checkins, pagination, nil
}

// Create records a check-in for the student, gated on an active plan and the
// rolling rate limit.
func (s *CheckinService) Create(ctx context.Context, studentID string) (*models.Checkin, error) {
	checkin, err := s.repo.Create(ctx, studentID, MaxCheckins, time.Duration(CheckinWindowDays)*24*time.Hour)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoActiveRegistration):
			return nil, appErrors.ErrNoActivePlan
		case errors.Is(err, repository.ErrCheckinLimitReached):
			return nil, appErrors.Clone(appErrors.ErrCheckinLimit,
				fmt.Sprintf("Max number of checkins reached (%d) in %d days", MaxCheckins, CheckinWindowDays))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create checkin")
	}
	return checkin, nil
}
