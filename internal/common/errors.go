// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Login errors.
	ErrorWrongPassword = errors.New("wrong password")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrDependencyUnavailable is returned when the store is not connected
	// or a round-trip to it failed.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// PartialWriteError reports a two-step album/photo mutation whose first step
// committed while the second one failed. The store is left with a dangling
// reference that reconciliation repairs.
type PartialWriteError struct {
	Op      string // "attach" or "detach"
	AlbumID string
	PhotoID string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: %s photo %s on album %s: album list not updated: %v",
		e.Op, e.PhotoID, e.AlbumID, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
