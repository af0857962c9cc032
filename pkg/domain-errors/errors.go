// Package domainerrors defines the error vocabulary shared by services and
// the HTTP layer. Services return errors carrying a Code; the transport maps
// codes to status codes without inspecting error strings.
package domainerrors

import "errors"

// Code classifies an error for transport mapping and logging.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error is a coded error. The wrapped cause, when present, is preserved for
// errors.Is/As chains but never surfaced to API callers.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error around a cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the code from err. Uncoded errors classify as internal.
func CodeOf(err error) Code {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from err. Uncoded errors yield
// a generic message so infrastructure detail never reaches API responses.
func MessageOf(err error) string {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Message
	}
	return "internal error"
}
