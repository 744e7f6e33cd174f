package apperrors

import (
	"errors"
	"net/http"
)

// Code classifies a failure of a core operation.
type Code int

const (
	CodeNotFound Code = iota + 1
	CodeUnauthorized
	CodeForbidden
	CodeConflict
	CodeInternal
)

// Error couples a taxonomy code with the fixed, user-visible message for
// it. The wrapped cause is kept for logs and never reaches the client.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StatusCode maps the taxonomy code to the HTTP status the transport
// layer responds with.
func (e *Error) StatusCode() int {
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NotFound reports that a referenced entity is absent.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Unauthorized reports a bad credential.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden reports that the caller is authenticated but not entitled.
// Absent memberships and tenant mismatches use this code so that the
// response does not leak whether the target exists.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Internal reports a store or logic inconsistency, typically a mutation
// that should have affected exactly one row affecting zero or several.
func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, cause: cause}
}

// CodeOf returns the taxonomy code carried by err, or zero when err is
// not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// IsCode reports whether err carries the given taxonomy code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
