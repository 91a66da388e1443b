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

// CheckinRepository handles persistence of gym-visit records.
type CheckinRepository struct {
	db *sqlx.DB
}

// NewCheckinRepository constructs the repository.
func NewCheckinRepository(db *sqlx.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

// ListByStudent returns a student's check-ins, newest first.
func (r *CheckinRepository) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.Checkin, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT id, student_id, created_at FROM checkins
        WHERE student_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`, pageSize, offset)

	var checkins []models.Checkin
	if err := r.db.SelectContext(ctx, &checkins, query, studentID); err != nil {
		return nil, 0, fmt.Errorf("list checkins: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM checkins WHERE student_id = $1", studentID); err != nil {
		return nil, 0, fmt.Errorf("count checkins: %w", err)
	}
	return checkins, total, nil
}

// Create records a check-in, enforcing both gates inside one transaction: the
// student must hold a registration whose end date is in the future, and fewer
// than limit check-ins may exist within the trailing window. The student row
// is locked so concurrent check-ins cannot slip past the quota together.
func (r *CheckinRepository) Create(ctx context.Context, studentID string, limit int, window time.Duration) (*models.Checkin, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var lockedID string
	err = tx.GetContext(ctx, &lockedID, "SELECT id FROM students WHERE id = $1 FOR UPDATE", studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoActiveRegistration
		}
		return nil, fmt.Errorf("lock student: %w", err)
	}

	now := time.Now().UTC()

	var active bool
	err = tx.GetContext(ctx, &active,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND canceled_at IS NULL AND end_date > $2)`,
		studentID, now)
	if err != nil {
		return nil, fmt.Errorf("check active registration: %w", err)
	}
	if !active {
		return nil, ErrNoActiveRegistration
	}

	var recent int
	err = tx.GetContext(ctx, &recent,
		"SELECT COUNT(*) FROM checkins WHERE student_id = $1 AND created_at >= $2",
		studentID, now.Add(-window))
	if err != nil {
		return nil, fmt.Errorf("count recent checkins: %w", err)
	}
	if recent >= limit {
		return nil, ErrCheckinLimitReached
	}

	checkin := &models.Checkin{ID: uuid.NewString(), StudentID: studentID, CreatedAt: now}
	const query = `INSERT INTO checkins (id, student_id, created_at) VALUES (:id, :student_id, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, checkin); err != nil {
		return nil, fmt.Errorf("create checkin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkin: %w", err)
	}
	return checkin, nil
}
