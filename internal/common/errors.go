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
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors. ValidationError values match ErrValidation.
	ErrValidation = errors.New("validation error")

	// Token errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenExpired = errors.New("refresh token has expired")
)

// ValidationError reports a locally detected problem with user input.
// Field names the offending form field; it may be empty for form-wide errors.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) succeed for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
