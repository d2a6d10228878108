package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP-mappable status and a stable machine code alongside
// the underlying cause. Services return these; the transport layer only ever
// inspects Status and Code.
type Error struct {
	Status int
	Code   string
	Err    error
}

const (
	CodeNotFound     = "not_found"
	CodeForbidden    = "forbidden"
	CodeConflict     = "conflict"
	CodeUnauthorized = "unauthorized"
	CodeValidation   = "validation_error"
	CodeInternal     = "internal_error"
)

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, CodeForbidden, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, fmt.Errorf(format, args...))
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, CodeValidation, fmt.Errorf(format, args...))
}

// Internal marks a broken invariant (e.g. a dangling reference the schema
// should have prevented). It must surface loudly, never as a silent nil.
func Internal(format string, args ...interface{}) *Error {
	return New(http.StatusInternalServerError, CodeInternal, fmt.Errorf(format, args...))
}

// StatusOf maps any error to an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the machine code of err, or CodeInternal for plain errors.
func CodeOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return apiErr.Code
	}
	return CodeInternal
}

func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
