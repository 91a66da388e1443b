package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/mail"
	"github.com/arturffsantos/gympoint/internal/models"
	"github.com/arturffsantos/gympoint/internal/repository"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
	"github.com/arturffsantos/gympoint/pkg/export"
)

type registrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	HasActiveOverlap(ctx context.Context, studentID string, start time.Time) (bool, error)
	Create(ctx context.Context, registration *models.Registration) error
	Update(ctx context.Context, registration *models.Registration) error
	Delete(ctx context.Context, id string) error
}

type planReader interface {
	FindByID(ctx context.Context, id string) (*models.Plan, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// WelcomePublisher queues welcome messages for the mailer worker.
type WelcomePublisher interface {
	PublishWelcome(ctx context.Context, msg mail.WelcomeMessage) error
}

// RegistrationRequest is the payload for creating or updating registrations.
type RegistrationRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	PlanID    string `json:"plan_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
}

// RegistrationService implements the registration business rules: date range
// computed from the plan duration, price snapshotted at write time, and at
// most one active registration per student at once.
type RegistrationService struct {
	repo      registrationRepository
	plans     planReader
	students  studentReader
	publisher WelcomePublisher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs RegistrationService. The publisher may be
// nil, in which case no welcome e-mails are queued.
func NewRegistrationService(repo registrationRepository, plans planReader, students studentReader, publisher WelcomePublisher, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, plans: plans, students: students, publisher: publisher, validator: validate, logger: logger}
}

// List returns registrations with pagination metadata, newest end date first.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, *models.Pagination, error) {
	filter.Page, filter.PageSize = normalizePagination(filter.Page, filter.PageSize)
	registrations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return registrations, pagination, nil
}

// Create registers a student to a plan starting at the given date.
func (s *RegistrationService) Create(ctx context.Context, req RegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	parsed, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	start := startOfDay(parsed)

	// The overlap pre-check keeps the legacy error precedence (an enrolled
	// student is reported before an unknown plan); the repository re-checks
	// under a lock so racing requests still cannot both insert.
	overlaps, err := s.repo.HasActiveOverlap(ctx, req.StudentID, start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if overlaps {
		return nil, appErrors.ErrAlreadyEnrolled
	}

	plan, err := s.plans.FindByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidPlan
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	registration := &models.Registration{
		StudentID: req.StudentID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   startOfDay(addMonths(start, plan.Duration)),
		Price:     plan.Price * float64(plan.Duration),
	}

	if err := s.repo.Create(ctx, registration); err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentNotFound), errors.Is(err, repository.ErrForeignKey):
			return nil, appErrors.ErrInvalidStudent
		case errors.Is(err, repository.ErrOverlappingRegistration):
			return nil, appErrors.ErrAlreadyEnrolled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}

	s.queueWelcomeMail(ctx, registration, plan)

	return registration, nil
}

// Update re-resolves the plan and overwrites the registration with freshly
// computed dates and price.
func (s *RegistrationService) Update(ctx context.Context, id string, req RegistrationRequest) (*models.Registration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	parsed, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBadRequest, "Invalid registration")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}

	plan, err := s.plans.FindByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidPlan
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	start := startOfDay(parsed)
	registration.StudentID = req.StudentID
	registration.PlanID = plan.ID
	registration.StartDate = start
	registration.EndDate = startOfDay(addMonths(start, plan.Duration))
	registration.Price = plan.Price * float64(plan.Duration)

	if err := s.repo.Update(ctx, registration); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, appErrors.ErrInvalidStudent
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration")
	}
	return registration, nil
}

// Delete removes a registration and returns its last-known state.
func (s *RegistrationService) Delete(ctx context.Context, id string) (*models.Registration, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrBadRequest, "Registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete registration")
	}
	return registration, nil
}

// Export renders the full registration roster as a CSV or PDF document and
// returns the bytes plus the content type to serve them with.
func (s *RegistrationService) Export(ctx context.Context, format export.Format) ([]byte, string, error) {
	table := export.Table{
		Title:   "Gympoint registrations",
		Columns: []string{"Student", "Plan", "Start date", "End date", "Price", "Active"},
	}

	for page := 1; ; page++ {
		batch, total, err := s.repo.List(ctx, models.RegistrationFilter{Page: page, PageSize: maxPageSize})
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
		}
		for _, reg := range batch {
			table.Rows = append(table.Rows, []string{
				reg.StudentName,
				reg.PlanTitle,
				reg.StartDate.Format("2006-01-02"),
				reg.EndDate.Format("2006-01-02"),
				fmt.Sprintf("%.2f", reg.Price),
				strconv.FormatBool(reg.IsActive),
			})
		}
		if len(batch) == 0 || len(table.Rows) >= total {
			break
		}
	}

	doc, err := export.Render(format, table)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return doc, format.ContentType(), nil
}

// queueWelcomeMail publishes the welcome message. Failures are logged and
// never surface to the request: mail delivery is fire-and-forget.
func (s *RegistrationService) queueWelcomeMail(ctx context.Context, registration *models.Registration, plan *models.Plan) {
	if s.publisher == nil {
		return
	}
	student, err := s.students.FindByID(ctx, registration.StudentID)
	if err != nil {
		s.logger.Warn("failed to load student for welcome mail", zap.String("student_id", registration.StudentID), zap.Error(err))
		return
	}
	msg := mail.WelcomeMessage{
		Student:    mail.WelcomeStudent{Name: student.Name, Email: student.Email},
		Plan:       mail.WelcomePlan{Title: plan.Title, Price: plan.Price, Duration: plan.Duration},
		StartDate:  registration.StartDate,
		EndDate:    registration.EndDate,
		TotalPrice: registration.Price,
	}
	if err := s.publisher.PublishWelcome(ctx, msg); err != nil {
		s.logger.Warn("failed to queue welcome mail", zap.String("student_id", student.ID), zap.Error(err))
	}
}
