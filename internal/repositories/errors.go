package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced document does not resolve
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for identifiers that are not valid ObjectID hex
	ErrInvalidID = errors.New("invalid id format")
)
