package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a referenced entity is absent, or absent
	// for the project the caller scoped it to.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input: a missing required
	// field, a disallowed extension, or failed image verification.
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}

	// ConflictError indicates a uniqueness conflict (username or
	// email already taken)
	ConflictError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *ConflictError) Error() string     { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *ConflictError) StatusCode() int     { return http.StatusConflict }

// ErrPathEscape marks an asset reference that resolved outside the
// upload root. It is logged at elevated severity where it is caught and
// must never leak path details to clients, so it maps to a plain 404.
var ErrPathEscape = errors.New("reference escapes upload root")

// Sentinel errors for use with errors.Is()
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)
