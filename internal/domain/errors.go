package domain

import "errors"

var (
	// ErrInvalidInput rejects malformed scoring inputs (negative size, NaN)
	// before any computation happens.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced record, user or
	// recommendation id does not exist where one is required.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned when the record store could not be
	// reached. It is propagated to the caller; the pipeline itself never
	// retries.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
