package identity

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes identity failures.
type ErrorCode string

const (
	// ErrCodeNameTaken indicates a case-insensitive name collision.
	ErrCodeNameTaken ErrorCode = "NAME_TAKEN"

	// ErrCodeInvalidName indicates a name that is empty after trimming
	// or contains control characters.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"

	// ErrCodeInvalidCredentials indicates an unknown name or a secret
	// that does not match the stored digest. The two cases are not
	// distinguished.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// Error represents an identity failure. No principal is created and no
// state changes when an Error is returned.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNameTaken reports whether the error is a name collision.
// Uses errors.As to handle wrapped errors.
func IsNameTaken(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeNameTaken
}

// IsInvalidName reports whether the error is an invalid-name failure.
func IsInvalidName(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeInvalidName
}

// IsInvalidCredentials reports whether the error is a credential failure.
func IsInvalidCredentials(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Code == ErrCodeInvalidCredentials
}
