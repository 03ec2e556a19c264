package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional update found the entity
	// in a state that does not allow the change.
	ErrConflict = errors.New("entity state conflict")
)
