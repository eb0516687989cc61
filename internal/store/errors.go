package store

import "errors"

var (
	// ErrNotFound is returned when no record exists for the given id or code.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a create or update would violate a
	// uniqueness constraint, or when a vend commit finds the slot already
	// drained. The attempted write leaves no trace.
	ErrConflict = errors.New("record conflict")
)
