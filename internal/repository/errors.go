package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors surfaced to the service layer. Uniqueness and referential
// integrity are enforced by database constraints, so a read-then-write race
// between two requests still ends with exactly one winner.
var (
	// ErrDuplicateKey maps a unique-constraint violation.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKey maps a referential-integrity violation.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrStudentNotFound signals the referenced student row does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrOverlappingRegistration signals the student already holds an active
	// registration covering the requested start date.
	ErrOverlappingRegistration = errors.New("overlapping active registration")
	// ErrNoActiveRegistration signals the student has no registration whose
	// end date is still in the future.
	ErrNoActiveRegistration = errors.New("no active registration")
	// ErrCheckinLimitReached signals the rolling-window check-in quota is spent.
	ErrCheckinLimitReached = errors.New("checkin limit reached")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translateConstraint converts PostgreSQL constraint violations into sentinel
// errors; anything else passes through untouched.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return ErrDuplicateKey
	case pqForeignKeyViolation:
		return ErrForeignKey
	}
	return err
}
