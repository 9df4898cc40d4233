// Package common defines the shared sentinel and typed errors used across
// cooktrack layers. Callers match sentinels with errors.Is and typed errors
// with errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("invalid username or password")

	// ErrOwnership covers both "resource does not exist" and "resource
	// belongs to another user". The two cases are indistinguishable to
	// callers so resource existence does not leak across accounts.
	ErrOwnership = errors.New("resource does not belong to user")
)

// ValidationError reports bad caller input, such as a missing phase name.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with a printf-style message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// PublishError wraps a broker transport or auth failure. The session or
// other state committed before the publish attempt stays committed.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string { return "publish failed: " + e.Err.Error() }

func (e *PublishError) Unwrap() error { return e.Err }
