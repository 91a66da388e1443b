package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/models"
	"github.com/arturffsantos/gympoint/internal/repository"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

// CreateStudentRequest is the payload for registering a gym member.
type CreateStudentRequest struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Age    int     `json:"age" validate:"required,gt=0"`
	Weight float64 `json:"weight" validate:"omitempty,gt=0"`
	Height float64 `json:"height" validate:"omitempty,gt=0"`
}

// UpdateStudentRequest is the payload for updating a gym member. All fields
// are optional; only the ones present are applied.
type UpdateStudentRequest struct {
	Name   *string  `json:"name" validate:"omitempty"`
	Email  *string  `json:"email" validate:"omitempty,email"`
	Age    *int     `json:"age" validate:"omitempty,gt=0"`
	Weight *float64 `json:"weight" validate:"omitempty,gt=0"`
	Height *float64 `json:"height" validate:"omitempty,gt=0"`
}

// StudentService provides gym member use cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students matching the optional name/email search, paginated.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	filter.Page, filter.PageSize = normalizePagination(filter.Page, filter.PageSize)
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a new gym member.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "Student already exists")
	}

	now := time.Now().UTC()
	student := &models.Student{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Age:       req.Age,
		Weight:    req.Weight,
		Height:    req.Height,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Student already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	return student, nil
}

// Update applies partial changes to an existing gym member.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidStudent, "Invalid student")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if req.Email != nil && *req.Email != student.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email, student.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Student already exists")
		}
		student.Email = *req.Email
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Age != nil {
		student.Age = *req.Age
	}
	if req.Weight != nil {
		student.Weight = *req.Weight
	}
	if req.Height != nil {
		student.Height = *req.Height
	}
	student.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "Student already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	return student, nil
}
