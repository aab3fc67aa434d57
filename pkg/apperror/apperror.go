// Package apperror defines the error kinds surfaced at the service boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeConflict           Code = "CONFLICT"
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
)

const internalMessage = "internal server error"

// Error is a classified application error.
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidArgument reports a rejected input field.
func InvalidArgument(field, message string) *Error {
	return &Error{Code: CodeInvalidArgument, Field: field, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// StorageUnavailable wraps a persistence failure. Its message is never shown to clients.
func StorageUnavailable(err error) *Error {
	return &Error{Code: CodeStorageUnavailable, Message: internalMessage, Err: err}
}

// As extracts an *Error from err. Unclassified errors become StorageUnavailable.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return StorageUnavailable(err)
}

// CodeOf returns the classification of err.
func CodeOf(err error) Code {
	return As(err).Code
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to return to a client.
func (e *Error) PublicMessage() string {
	if e.Code == CodeStorageUnavailable {
		return internalMessage
	}
	if e.Field != "" && e.Message == "" {
		return "invalid " + e.Field
	}
	return e.Message
}
