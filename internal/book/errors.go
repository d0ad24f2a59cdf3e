package book

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when a positional index does not name
	// an existing recipe.
	ErrIndexOutOfRange = errors.New("recipe index out of range")

	// ErrNotFound is returned when no recipe carries the requested ID.
	ErrNotFound = errors.New("recipe not found")
)

func indexError(i, n int) error {
	return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, n)
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
