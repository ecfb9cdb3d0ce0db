package entity

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when an entity exists but belongs to
	// another user. Existence is always checked first.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned on a duplicate customer create.
	ErrConflict = errors.New("conflict")
	// ErrValidation is returned for malformed input detected past the
	// request binding layer.
	ErrValidation = errors.New("validation")
)
