package errors

import (
	"errors"
	"fmt"
)

// ValidationKind distinguishes the ways a client update can be rejected.
type ValidationKind string

const (
	MissingField ValidationKind = "MissingField"
	InvalidValue ValidationKind = "InvalidValue"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidValue = errors.New("invalid value")
)

// ValidationError is a typed rejection of a client update. It matches
// ErrMissingField or ErrInvalidValue under errors.Is.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMissingField:
		return e.Kind == MissingField
	case ErrInvalidValue:
		return e.Kind == InvalidValue
	}
	return false
}

func NewMissingField(field, message string) *ValidationError {
	return &ValidationError{Kind: MissingField, Field: field, Message: message}
}

func NewInvalidValue(field, message string) *ValidationError {
	return &ValidationError{Kind: InvalidValue, Field: field, Message: message}
}
