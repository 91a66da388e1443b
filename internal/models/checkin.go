package models

import "time"

// Checkin is a timestamped gym-visit record. Rows are append-only.
type Checkin struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
