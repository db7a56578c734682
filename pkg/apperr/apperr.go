// Package apperr defines the error kinds returned by the service layer and
// recognised by the HTTP layer when choosing a status code.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindAlreadyExists
	KindInvalidInput
	KindBookNotAvailable
	KindReservedMissing
	KindBorrowedMissing
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindInvalidInput:
		return "InvalidInput"
	case KindBookNotAvailable:
		return "BookNotAvailable"
	case KindReservedMissing:
		return "ReservedMissing"
	case KindBorrowedMissing:
		return "BorrowedMissing"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	}
	return "Internal"
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works
// through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrAlreadyExists    = &Error{Kind: KindAlreadyExists}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrBookNotAvailable = &Error{Kind: KindBookNotAvailable}
	ErrReservedMissing  = &Error{Kind: KindReservedMissing}
	ErrBorrowedMissing  = &Error{Kind: KindBorrowedMissing}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrForbidden        = &Error{Kind: KindForbidden}
)

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func AlreadyExists(format string, args ...interface{}) *Error {
	return newf(KindAlreadyExists, format, args...)
}

func InvalidInput(format string, args ...interface{}) *Error {
	return newf(KindInvalidInput, format, args...)
}

func BookNotAvailable(format string, args ...interface{}) *Error {
	return newf(KindBookNotAvailable, format, args...)
}

func ReservedMissing(format string, args ...interface{}) *Error {
	return newf(KindReservedMissing, format, args...)
}

func BorrowedMissing(format string, args ...interface{}) *Error {
	return newf(KindBorrowedMissing, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newf(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

// Validation builds an InvalidInput error carrying per-field messages.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindInvalidInput, Message: "validation failed", Fields: fields}
}

// KindOf reports the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
