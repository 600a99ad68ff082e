package errors

import (
	"errors"
	"fmt"
)

// ERR is the error code carried by every Error in this package.
type ERR int

const (
	ERR_UNKNOWN ERR = iota
	ERR_INVALID_ARGUMENT
	ERR_NOT_FOUND
	ERR_PROCESSING
	ERR_CONFIGURATION
	ERR_STORAGE
	ERR_COIN_NOT_FOUND
	ERR_COIN_SPENT
	ERR_UNSPENDABLE
)

var errNames = map[ERR]string{
	ERR_UNKNOWN:          "UNKNOWN",
	ERR_INVALID_ARGUMENT: "INVALID_ARGUMENT",
	ERR_NOT_FOUND:        "NOT_FOUND",
	ERR_PROCESSING:       "PROCESSING",
	ERR_CONFIGURATION:    "CONFIGURATION",
	ERR_STORAGE:          "STORAGE",
	ERR_COIN_NOT_FOUND:   "COIN_NOT_FOUND",
	ERR_COIN_SPENT:       "COIN_SPENT",
	ERR_UNSPENDABLE:      "UNSPENDABLE",
}

func (e ERR) String() string {
	if name, ok := errNames[e]; ok {
		return name
	}

	return fmt.Sprintf("ERR(%d)", int(e))
}

// Error is a coded error. Is() matches on the code, so callers can test
// against the predefined errors regardless of message or wrapping.
type Error struct {
	code       ERR
	message    string
	wrappedErr error
}

// New creates a new Error with the given code and message. The params are
// passed through Sprintf, except that a trailing error is wrapped instead of
// being formatted into the message.
func New(code ERR, message string, params ...interface{}) *Error {
	var wrappedErr error

	if len(params) > 0 {
		if err, ok := params[len(params)-1].(error); ok {
			wrappedErr = err
			params = params[:len(params)-1]
		}
	}

	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}

	return &Error{
		code:       code,
		message:    message,
		wrappedErr: wrappedErr,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.wrappedErr == nil {
		return fmt.Sprintf("%s (%d): %s", e.code, e.code, e.message)
	}

	return fmt.Sprintf("%s (%d): %s: %v", e.code, e.code, e.message, e.wrappedErr)
}

func (e *Error) Code() ERR {
	return e.code
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.wrappedErr
}

// Is reports whether target is an Error with the same code, directly or via
// the wrapped chain.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	var targetErr *Error
	if !errors.As(target, &targetErr) {
		return false
	}

	if e.code == targetErr.code {
		return true
	}

	if e.wrappedErr != nil {
		return errors.Is(e.wrappedErr, target)
	}

	return false
}

// Is, As and Join are re-exported so callers do not need to import both this
// package and the standard library errors package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}
