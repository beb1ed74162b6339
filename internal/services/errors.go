package services

import (
	"errors"
	"fmt"

	"habiterr/internal/database"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr maps storage sentinels onto service errors and wraps the rest.
func storeErr(err error, msg string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
