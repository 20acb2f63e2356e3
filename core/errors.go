package core

import "github.com/pkg/errors"

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries the per-field breakdown of a rejected input.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, fields ...FieldError) error {
	return &ValidationError{Err: err, Fields: fields}
}

func (ve ValidationError) Error() string {
	if ve.Err == nil {
		return ""
	}
	return ve.Err.Error()
}

type shutdownError struct {
	reason string
}

// NewShutdownError reports unrecoverable internal state, such as a class
// roster pointing at a student record that no longer exists. The request
// layer turns it into a 500 and signals the server to stop.
func NewShutdownError(reason string) error {
	return &shutdownError{reason: reason}
}

func (se shutdownError) Error() string { return se.reason }

// IsShutdown reports whether err, or its cause, demands a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdownError)
	return ok
}
