package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so handlers can pick the right HTTP status
// and callers can decide whether a retry makes sense.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindState      ErrorKind = "state"
	KindCapacity   ErrorKind = "capacity"
	KindConflict   ErrorKind = "conflict"
	KindTransient  ErrorKind = "transient"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewStateError(format string, args ...any) *AppError {
	return &AppError{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func NewCapacityError(format string, args ...any) *AppError {
	return &AppError{Kind: KindCapacity, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewTransientError(message string, err error) *AppError {
	return &AppError{Kind: KindTransient, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from an error chain. Unclassified errors are
// treated as transient so they surface as 5xx rather than leaking details.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindTransient
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
