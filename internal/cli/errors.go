package cli

import (
	"errors"

	"github.com/grimstre/introspect/internal/identity"
	"github.com/grimstre/introspect/internal/service"
	"github.com/grimstre/introspect/internal/store"
)

// userMessage maps an error from the identity or service layer onto a
// stable code and a user-facing message. Unknown errors pass through
// verbatim with a generic code.
func userMessage(err error) (code, message string) {
	var se *service.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case service.KindValidation:
			return string(se.Kind), "Invalid input: " + se.Message
		case service.KindNotFound:
			return string(se.Kind), "Record not found"
		case service.KindNotOwner:
			return string(se.Kind), "You can only modify your own records"
		}
	}
	var ie *identity.Error
	if errors.As(err, &ie) {
		switch ie.Code {
		case identity.ErrCodeNameTaken:
			return string(ie.Code), "That name is already registered"
		case identity.ErrCodeInvalidName:
			return string(ie.Code), "Invalid name: " + ie.Message
		case identity.ErrCodeInvalidCredentials:
			return string(ie.Code), "Invalid credentials"
		}
	}
	if store.IsPersistenceFailure(err) {
		return "PERSISTENCE", "Could not save your data: " + err.Error()
	}
	return "ERROR", err.Error()
}

// fail reports a domain failure through the formatter and returns the
// matching ExitError.
func fail(f *OutputFormatter, err error) error {
	code, message := userMessage(err)
	if outErr := f.Error(code, message); outErr != nil {
		return outErr
	}
	return &ExitError{Code: ExitFailure, Message: message, Err: err}
}
