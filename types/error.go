package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of parse or schema failure.
type ErrorCode string

const (
	// ErrTypeCoercion means leaf text did not match the declared scalar type.
	// Returned by final-mode parsing only.
	ErrTypeCoercion ErrorCode = "TYPE_COERCION"

	// ErrMissingRequiredField means an object finalized without a required child.
	// Returned by final-mode parsing only.
	ErrMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"

	// ErrUnresolvedUnion means a non-optional union finalized with no matching
	// branch observed. Returned by final-mode parsing only.
	ErrUnresolvedUnion ErrorCode = "UNRESOLVED_UNION"

	// ErrDescriptor means the descriptor tree itself is malformed (cycle,
	// duplicate union tag, unregistered union, unsupported type). Always fatal,
	// in both modes.
	ErrDescriptor ErrorCode = "DESCRIPTOR"
)

// Error is a structured error with a code, a human-readable message and,
// where it applies, the dotted path of the offending field.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %s: %v", e.Code, e.Field, e.Message, e.Cause)
	case e.Field != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithField attaches the dotted field path the error refers to.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// IsErrorCode reports whether err is (or wraps) an Error with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, or "" if it carries none.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
