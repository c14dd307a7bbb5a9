package availability

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("booking conflict")
)

// FieldError names the offending input field so the client can show an
// actionable message. It matches ErrValidation under errors.Is.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Is(target error) bool { return target == ErrValidation }

func fieldErr(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
