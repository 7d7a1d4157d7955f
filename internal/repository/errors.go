package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup by id resolves to no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("record already exists")
)
