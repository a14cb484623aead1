package store

import (
	"errors"
	"fmt"
)

// PersistenceError represents an I/O failure in save, load, or export.
// The in-memory document is rolled back to the pre-call snapshot by the
// service when a save returns one of these.
type PersistenceError struct {
	Op   string // "save", "load", "blob"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceFailure reports whether the error is a persistence failure.
// Uses errors.As to handle wrapped errors.
func IsPersistenceFailure(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// WarningCode categorizes non-fatal load conditions.
type WarningCode string

const (
	// WarnCorruptDocument indicates a file with unparseable or
	// schema-violating content. The file is preserved under a .broken
	// suffix and an empty document is used in its place.
	WarnCorruptDocument WarningCode = "CORRUPT_DOCUMENT"
)

// Warning reports a recovered load condition. Warnings are surfaced to the
// user by the host adapter but never abort the load.
type Warning struct {
	Code    WarningCode
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Code, w.Path, w.Message)
}
