package repo

import (
	"errors"
	"time"
)

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrUserNotFound is returned when no account matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicatedValueUnique is returned when a write violates a unique key.
	ErrDuplicatedValueUnique = errors.New("unique constraint violation")
)

const queryTimeout = 3 * time.Second
