package records

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageRead reports that the snapshot could not be loaded.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite reports that the snapshot could not be persisted. The
	// in-memory change that preceded the write is kept.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrUninitialized is returned by mutations issued before Init succeeded.
	ErrUninitialized = errors.New("record store is not initialized")
)

// ValidationError describes a malformed query argument. Queries log it and
// return a zero result instead of failing.
type ValidationError struct {
	Arg    any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid date argument %v (%T): %s", e.Arg, e.Arg, e.Reason)
}

func readError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageRead, err)
}

func writeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageWrite, err)
}
