package models

import (
	"errors"
	"fmt"
)

var (
	// ErrTranslationUnavailable signals the translation collaborator
	// failed. The normalizer recovers it with pass-through text; it never
	// reaches a client.
	ErrTranslationUnavailable = errors.New("translation unavailable")

	// ErrServiceUnavailable maps to HTTP 503.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NotFoundError maps to HTTP 404.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Resource, e.Key)
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ValidationError maps to HTTP 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
