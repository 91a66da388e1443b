package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/models"
	"github.com/arturffsantos/gympoint/internal/repository"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
)

const planCachePattern = "plans:list:*"

type planRepository interface {
	List(ctx context.Context, filter models.PlanFilter) ([]models.Plan, int, error)
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	ExistsByTitle(ctx context.Context, title string, excludeID string) (bool, error)
	Create(ctx context.Context, plan *models.Plan) error
	Update(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, id string) error
}

// CreatePlanRequest holds payload for creating plans.
type CreatePlanRequest struct {
	Title    string  `json:"title" validate:"required"`
	Duration int     `json:"duration" validate:"required,gt=0"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// UpdatePlanRequest holds payload for updating plans; all fields optional.
type UpdatePlanRequest struct {
	Title    *string  `json:"title" validate:"omitempty,min=1"`
	Duration *int     `json:"duration" validate:"omitempty,gt=0"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
}

type planListPayload struct {
	Plans []models.Plan `json:"plans"`
	Total int           `json:"total"`
}

// PlanService handles subscription-plan use cases. List responses are served
// from the cache when enabled; every mutation invalidates it.
type PlanService struct {
	repo      planRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanService constructs the plan service. Cache may be nil.
func NewPlanService(repo planRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns plans ordered by duration with pagination metadata.
func (s *PlanService) List(ctx context.Context, filter models.PlanFilter) ([]models.Plan, *models.Pagination, error) {
	filter.Page, filter.PageSize = normalizePagination(filter.Page, filter.PageSize)

	key := fmt.Sprintf("plans:list:%d:%d", filter.Page, filter.PageSize)
	var cached planListPayload
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: cached.Total}
		return cached.Plans, pagination, nil
	}

	plans, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}

	_ = s.cache.Set(ctx, key, planListPayload{Plans: plans, Total: total}, 0)

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return plans, pagination, nil
}

// Create registers a new plan with a unique title.
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	exists, err := s.repo.ExistsByTitle(ctx, req.Title, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate title")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "Plan already exists")
	}
	plan := &models.Plan{Title: req.Title, Duration: req.Duration, Price: req.Price}
	if err := s.repo.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Plan already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	s.invalidateCache(ctx)
	return plan, nil
}

// Update modifies an existing plan. A missing plan answers 404, unlike every
// other resource here; the asymmetry is part of the API contract.
func (s *PlanService) Update(ctx context.Context, id string, req UpdatePlanRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	if req.Title != nil && *req.Title != plan.Title {
		exists, err := s.repo.ExistsByTitle(ctx, *req.Title, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate title")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Plan already exists")
		}
		plan.Title = *req.Title
	}
	if req.Duration != nil {
		plan.Duration = *req.Duration
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Plan already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update plan")
	}
	s.invalidateCache(ctx)
	return plan, nil
}

// Delete removes a plan and returns its last-known state.
func (s *PlanService) Delete(ctx context.Context, id string) (*models.Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBadRequest, "Plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, appErrors.Clone(appErrors.ErrBadRequest, "Plan is in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}
	s.invalidateCache(ctx)
	return plan, nil
}

func (s *PlanService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, planCachePattern); err != nil {
		s.logger.Warn("failed to invalidate plan cache", zap.Error(err))
	}
}
