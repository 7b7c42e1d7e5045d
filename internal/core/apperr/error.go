package apperr

import (
	"errors"
	"net/http"
)

type Class string

const (
	NotFound     Class = "NotFound"
	Validation   Class = "Validation"
	Conflict     Class = "Conflict"
	Unauthorized Class = "Unauthorized"
	Failure      Class = "Failure"
)

// HTTPStatus maps an error class to the status code the transport layer
// answers with.
func (c Class) HTTPStatus() int {
	switch c {
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusUnprocessableEntity
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is an expected failure carried as a value. Unexpected faults are plain
// wrapped errors and never an *Error.
type Error struct {
	Code    string
	Message string
	Class   Class
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// Is matches on Code so that errors.Is works against the catalogue values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

func New(class Class, code, message string) *Error {
	return &Error{Code: code, Message: message, Class: class}
}

// As extracts an *Error from err. ok is false for unexpected faults.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// ClassOf returns Failure for anything that is not an *Error.
func ClassOf(err error) Class {
	if e, ok := As(err); ok {
		return e.Class
	}

	return Failure
}
