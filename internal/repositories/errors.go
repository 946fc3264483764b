package repositories

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or has been
	// soft-deleted.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when a create would violate email
	// uniqueness among non-deleted rows.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrDuplicateInterview is returned when an interview already exists for
	// the same candidate, interviewer and time slot.
	ErrDuplicateInterview = errors.New("interview already scheduled for this slot")
)
