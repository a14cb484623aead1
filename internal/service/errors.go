package service

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes service failures.
type ErrorKind string

const (
	// KindValidation indicates input that failed a contract: empty
	// element lists, an over-long narrative, an unknown scheme, an
	// unregistered author.
	KindValidation ErrorKind = "VALIDATION"

	// KindNotFound indicates an absent record id. No state changes.
	KindNotFound ErrorKind = "NOT_FOUND"

	// KindNotOwner indicates an editor that is not the record's author.
	// No state changes.
	KindNotOwner ErrorKind = "NOT_OWNER"
)

// Error represents a failed service operation. The document is unchanged
// whenever an Error is returned.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsValidation reports whether the error is a validation failure.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindValidation
}

// IsNotFound reports whether the error is a missing-record failure.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindNotFound
}

// IsNotOwner reports whether the error is an ownership failure.
func IsNotOwner(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindNotOwner
}

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
