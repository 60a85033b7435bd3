package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const UnknownCode = 500

// Error is a structured error carrying an HTTP status code, a caller-facing
// message and an optional wrapped cause. The message is what the API returns;
// the cause stays in logs.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error renders the code, message and cause chain as a single line.
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString("code=")
	msg.WriteString(strconv.Itoa(e.Code))
	msg.WriteString(", message=")
	msg.WriteString(e.Message)

	if e.cause != nil {
		msg.WriteString(", cause=")
		msg.WriteString(e.cause.Error())
	}

	return msg.String()
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches a cause. Returns a new error instance to keep the
// sentinel values in this package immutable.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}

	return &Error{
		Code:    e.Code,
		Message: e.Message,
		cause:   cause,
	}
}

// Is reports whether err is an *Error with the same code and message.
// The cause chain is intentionally excluded from the comparison.
func (e *Error) Is(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return e.Code == ce.Code && e.Message == ce.Message
	}
	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() int {
	return e.Code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.Message
}

// GetCause returns the underlying cause of the error.
func (e *Error) GetCause() error {
	return e.cause
}

// New creates a new error with the given code and formatted message.
func New(code int, format string, args ...any) *Error {
	var message string
	if len(args) == 0 {
		message = format
	} else {
		message = fmt.Sprintf(format, args...)
	}

	return &Error{
		Code:    code,
		Message: message,
	}
}

// FromError converts a generic error to *Error. Errors that are not already
// an *Error map to code 500, so unexpected failures never leak detail.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	return New(UnknownCode, "internal server error").WithCause(err)
}

// Code returns the status code of err, or UnknownCode if err carries none.
func Code(err error) int {
	if err == nil {
		return 200
	}
	return FromError(err).Code
}

// Wrap wraps an error with additional context while preserving the original
// error chain. Returns nil if the input error is nil.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}

	return New(code, format, args...).WithCause(err)
}

// Is and As re-export their standard library counterparts so callers working
// with cause chains need only this package.

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
