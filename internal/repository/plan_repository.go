package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/arturffsantos/gympoint/internal/models"
)

// PlanRepository manages persistence for subscription plans.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs a PlanRepository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// List returns plans ordered by duration.
func (r *PlanRepository) List(ctx context.Context, filter models.PlanFilter) ([]models.Plan, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, title, duration, price, created_at, updated_at
        FROM plans ORDER BY duration ASC LIMIT %d OFFSET %d`, size, offset)

	var plans []models.Plan
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, 0, fmt.Errorf("list plans: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM plans"); err != nil {
		return nil, 0, fmt.Errorf("count plans: %w", err)
	}
	return plans, total, nil
}

// FindByID fetches a plan by primary key.
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	const query = `SELECT id, title, duration, price, created_at, updated_at FROM plans WHERE id = $1`
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ExistsByTitle checks if a plan with the given title exists, optionally
// excluding an ID.
func (r *PlanRepository) ExistsByTitle(ctx context.Context, title string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM plans WHERE title = $1"
	args := []interface{}{title}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check plan title: %w", err)
	}
	return true, nil
}

// Create inserts a new plan.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	const query = `INSERT INTO plans (id, title, duration, price, created_at, updated_at)
        VALUES (:id, :title, :duration, :price, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		if translated := translateConstraint(err); translated != err {
			return translated
		}
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// Update modifies an existing plan.
func (r *PlanRepository) Update(ctx context.Context, plan *models.Plan) error {
	plan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE plans SET title = :title, duration = :duration, price = :price, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		if translated := translateConstraint(err); translated != err {
			return translated
		}
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// Delete removes a plan permanently.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM plans WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		if translated := translateConstraint(err); translated != err {
			return translated
		}
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}
