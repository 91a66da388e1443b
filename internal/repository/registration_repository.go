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

// RegistrationRepository handles persistence of plan registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// List returns registrations sorted by end date descending, joined with the
// student and plan rows for display.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	base := `FROM registrations r
LEFT JOIN students s ON s.id = r.student_id
LEFT JOIN plans p ON p.id = r.plan_id`
	var args []interface{}
	clause := ""
	if filter.StudentID != "" {
		clause = " WHERE r.student_id = $1"
		args = append(args, filter.StudentID)
	}

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

	query := fmt.Sprintf(`SELECT r.id, r.student_id, r.plan_id, r.start_date, r.end_date, r.price, r.canceled_at, r.created_at, r.updated_at,
        s.name AS student_name, p.title AS plan_title,
        (r.canceled_at IS NULL AND r.end_date > now()) AS is_active
        %s%s ORDER BY r.end_date DESC LIMIT %d OFFSET %d`, base, clause, size, offset)

	var registrations []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", base, clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	return registrations, total, nil
}

// FindByID fetches a registration by primary key.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	const query = `SELECT id, student_id, plan_id, start_date, end_date, price, canceled_at, created_at, updated_at
        FROM registrations WHERE id = $1`
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// HasActiveOverlap reports whether the student holds a non-canceled
// registration whose end date falls after the given start date.
func (r *RegistrationRepository) HasActiveOverlap(ctx context.Context, studentID string, start time.Time) (bool, error) {
	var overlaps bool
	err := r.db.GetContext(ctx, &overlaps,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND canceled_at IS NULL AND end_date > $2)`,
		studentID, start)
	if err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return overlaps, nil
}

// Create inserts a registration after verifying, inside one transaction, that
// the student exists and has no active registration overlapping the start
// date. The student row is locked so two concurrent creates for the same
// student serialize instead of both passing the overlap check.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registration tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var studentID string
	err = tx.GetContext(ctx, &studentID, "SELECT id FROM students WHERE id = $1 FOR UPDATE", registration.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrStudentNotFound
		}
		return fmt.Errorf("lock student: %w", err)
	}

	var overlaps bool
	err = tx.GetContext(ctx, &overlaps,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND canceled_at IS NULL AND end_date > $2)`,
		registration.StudentID, registration.StartDate)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if overlaps {
		return ErrOverlappingRegistration
	}

	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	registration.CreatedAt = now
	registration.UpdatedAt = now
	const query = `INSERT INTO registrations (id, student_id, plan_id, start_date, end_date, price, canceled_at, created_at, updated_at)
        VALUES (:id, :student_id, :plan_id, :start_date, :end_date, :price, :canceled_at, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, registration); err != nil {
		if translated := translateConstraint(err); translated != err {
			return translated
		}
		return fmt.Errorf("create registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

// Update overwrites the registration's student, plan and recomputed dates.
func (r *RegistrationRepository) Update(ctx context.Context, registration *models.Registration) error {
	registration.UpdatedAt = time.Now().UTC()
	const query = `UPDATE registrations SET student_id = :student_id, plan_id = :plan_id, start_date = :start_date,
        end_date = :end_date, price = :price, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		if translated := translateConstraint(err); translated != err {
			return translated
		}
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// Delete removes a registration permanently.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM registrations WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}
