package repositories

import "errors"

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("repositories: not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("repositories: duplicate key")
)
