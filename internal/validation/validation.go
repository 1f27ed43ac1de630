// Package validation holds the error type for rejected user input. A
// validation error aborts the operation before any backend call is made.
package validation

import (
	"errors"
	"fmt"
)

type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string) error {
	return &Error{Message: message}
}

func Errorf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err, or anything it wraps, is a validation error.
func Is(err error) bool {
	var v *Error
	return errors.As(err, &v)
}
