package models

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks malformed request-level parameters (e.g. non-numeric
// coordinates). Wrap it with context via fmt.Errorf("...: %w", ErrInvalidArgument).
var ErrInvalidArgument = errors.New("invalid argument")

// ValidationError is a field-level, user-correctable input error.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// NotFoundError covers both a missing record and a record outside the caller's
// visibility scope. The two cases are deliberately indistinguishable so that
// out-of-scope ids do not leak existence.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
