package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrParse        = errors.New("parse error")
	ErrPublish      = errors.New("publish error")
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ParseFailed wraps a dataset decode failure. The stored file is corrupt or
// was hand-edited into invalid JSON; the workflow must stop before any write.
func ParseFailed(cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrParse, cause),
		Message: "the stored dataset could not be parsed",
	}
}

// PublishFailed wraps a failure from the hosting API during the publish
// sequence (branch, commit, or pull request). The step name goes into the
// wrapped error for logs and the audit trail; the Message stays generic
// because it may reach the submitter.
func PublishFailed(step string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrPublish, step, cause),
		Message: "An error occurred while processing your submission.",
	}
}

// Unauthorized returns an AppError indicating the caller is not logged in.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
