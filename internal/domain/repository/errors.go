package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
	// ErrStaleState is returned by conditional status updates when the
	// persisted status no longer matches the expected one.
	ErrStaleState = errors.New("record state changed")
)
