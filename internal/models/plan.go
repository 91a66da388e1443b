package models

import "time"

// Plan represents a subscription plan priced per month.
type Plan struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Duration  int       `db:"duration" json:"duration"`
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PlanFilter captures list parameters for plans.
type PlanFilter struct {
	Page     int
	PageSize int
}
