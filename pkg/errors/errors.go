package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed input (name, coordinates, rating, id shape)
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeUnauthorized indicates the acting principal is not on the allow-list
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeNotFound indicates the target record is absent
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict indicates the same action is already running for the target
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeStore indicates the data store call itself failed
	ErrorTypeStore ErrorType = "STORE"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewStoreError wraps a failed data store call
func NewStoreError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeStore, Message: message, Err: err}
}

// TypeOf returns the ErrorType carried by err, or "" when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err (or anything it wraps) is an AppError of type t.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// MessageOf returns the human readable message of an AppError, or fallback.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
