// Package errors provides common domain error types for the engage application.
//
// This package defines sentinel errors for the domain conditions an upload or
// query can fail with. Using typed errors enables consistent handling with
// errors.Is() checks across the CLI, the HTTP layer, and the store.
//
// Usage:
//
//	import hderrors "github.com/hackdook/engage/pkg/errors"
//
//	// Return a domain error
//	return nil, hderrors.ErrNotFound
//
//	// Check for domain errors
//	if hderrors.IsNotFound(err) {
//	    // handle not found case
//	}
package errors

import "errors"

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNotFound indicates no session exists for the requested week.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a missing or malformed upload field
	// (week number, transcript file, chat file) or an internally
	// inconsistent record such as a negative count.
	ErrValidation = errors.New("validation error")

	// ErrStorage indicates a persistence read or write failure.
	ErrStorage = errors.New("storage error")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStorage reports whether any error in err's chain is ErrStorage.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
