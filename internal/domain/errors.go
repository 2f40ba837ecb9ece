package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// HTTPError defines errors that carry their own HTTP status code.
// Implementing this interface lets the handler layer map new error
// types without growing a switch statement.
type HTTPError interface {
	error
	StatusCode() int
}

// ConflictError represents a uniqueness conflict with details about the
// existing resource, so handlers can return it alongside the 409.
type ConflictError struct {
	Message      string
	ResourceType string // document, category, attachment
	ResourceID   string // ID of the existing resource
}

func (e *ConflictError) Error() string { return e.Message }

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
