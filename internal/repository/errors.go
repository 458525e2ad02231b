package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a guarded write finds the entity in a
	// state other than the one the guard expected.
	ErrConflict = errors.New("entity state conflict")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("entity already exists")
)
