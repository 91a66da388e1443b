package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/models"
	appErrors "github.com/arturffsantos/gympoint/pkg/errors"
)

const helpOrderListLimit = 20

type helpOrderRepository interface {
	ListByStudent(ctx context.Context, studentID string, limit int) ([]models.HelpOrder, error)
	ListUnanswered(ctx context.Context, limit int) ([]models.HelpOrder, error)
	Create(ctx context.Context, order *models.HelpOrder) error
	Answer(ctx context.Context, id primitive.ObjectID, answer string) (*models.HelpOrder, error)
}

// CreateHelpOrderRequest is the payload for a student question.
type CreateHelpOrderRequest struct {
	Question string `json:"question" validate:"required"`
}

// AnswerHelpOrderRequest is the payload for a staff answer.
type AnswerHelpOrderRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// HelpOrderService provides help desk use cases backed by the document store.
type HelpOrderService struct {
	repo      helpOrderRepository
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHelpOrderService constructs a HelpOrderService instance.
func NewHelpOrderService(repo helpOrderRepository, students studentReader, validate *validator.Validate, logger *zap.Logger) *HelpOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &HelpOrderService{repo: repo, students: students, validator: validate, logger: logger}
}

// ListByStudent returns the most recent questions of one student.
func (s *HelpOrderService) ListByStudent(ctx context.Context, studentID string) ([]models.HelpOrder, error) {
	orders, err := s.repo.ListByStudent(ctx, studentID, helpOrderListLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list help orders")
	}
	return orders, nil
}

// ListUnanswered returns pending questions across all students, newest first.
func (s *HelpOrderService) ListUnanswered(ctx context.Context) ([]models.HelpOrder, error) {
	orders, err := s.repo.ListUnanswered(ctx, helpOrderListLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unanswered help orders")
	}
	return orders, nil
}

// Create records a new question for the given student.
func (s *HelpOrderService) Create(ctx context.Context, studentID string, req CreateHelpOrderRequest) (*models.HelpOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidStudent
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	now := time.Now().UTC()
	order := &models.HelpOrder{
		StudentID: studentID,
		Question:  req.Question,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create help order")
	}
	return order, nil
}

// Answer records the staff answer for a pending question.
func (s *HelpOrderService) Answer(ctx context.Context, id string, req AnswerHelpOrderRequest) (*models.HelpOrder, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, "Help order not found")
	}

	order, err := s.repo.Answer(ctx, objectID, req.Answer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appErrors.Clone(appErrors.ErrBadRequest, "Help order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to answer help order")
	}
	return order, nil
}
