package app

import (
	"errors"
	"net/http"
)

// Error kinds. Every failure returned by Service unwraps to one of these.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a kind and the message shown to the caller
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalidInput(detail string) error {
	return &Error{Kind: ErrInvalidInput, Detail: detail}
}

func notFound(detail string) error {
	return &Error{Kind: ErrNotFound, Detail: detail}
}

func unauthorized(detail string) error {
	return &Error{Kind: ErrUnauthorized, Detail: detail}
}

// StatusFor maps an error to its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// detailFor returns the caller-facing message for err.
// Unclassified errors never leak their text.
func detailFor(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail
	}
	return ErrInternalServer
}
