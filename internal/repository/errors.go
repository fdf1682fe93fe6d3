package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned (wrapped) when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrUniqueViolation is returned (wrapped) when an insert collides with a
	// unique index.
	ErrUniqueViolation = errors.New("unique constraint violated")
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
