// Package errs provides the trusted error type handlers use to control
// the response status for expected failures.
package errs

import (
	"errors"
	"fmt"
)

// Error carries an HTTP status alongside an expected failure so the error
// middleware responds with it instead of masking the failure as a 500.
type Error struct {
	Err    error
	Status int
}

// New wraps an expected error with the status to respond with.
func New(status int, err error) error {
	return &Error{Err: err, Status: status}
}

// Newf constructs a trusted error from a format string.
func Newf(status int, format string, args ...any) error {
	return &Error{Err: fmt.Errorf(format, args...), Status: status}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// As extracts a trusted error when one is present in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// =============================================================================

// Response is the JSON body returned for failed requests.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
