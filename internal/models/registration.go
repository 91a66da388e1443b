package models

import "time"

// Registration subscribes a student to a plan for a computed date range at a
// price snapshotted when the registration is created or updated. A
// registration is active while canceled_at is null; it blocks new
// registrations for the same student until end_date passes.
type Registration struct {
	ID         string     `db:"id" json:"id"`
	StudentID  string     `db:"student_id" json:"student_id"`
	PlanID     string     `db:"plan_id" json:"plan_id"`
	StartDate  time.Time  `db:"start_date" json:"start_date"`
	EndDate    time.Time  `db:"end_date" json:"end_date"`
	Price      float64    `db:"price" json:"price"`
	CanceledAt *time.Time `db:"canceled_at" json:"canceled_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Active reports whether the registration still grants gym access at t.
func (r *Registration) Active(t time.Time) bool {
	return r.CanceledAt == nil && r.EndDate.After(t)
}

// RegistrationDetail enriches Registration with student and plan info for
// list responses.
type RegistrationDetail struct {
	Registration
	StudentName string `db:"student_name" json:"student_name"`
	PlanTitle   string `db:"plan_title" json:"plan_title"`
	IsActive    bool   `db:"is_active" json:"active"`
}

// RegistrationFilter captures list parameters for registrations.
type RegistrationFilter struct {
	StudentID string
	Page      int
	PageSize  int
}
