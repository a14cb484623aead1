// Package cli is the host adapter: the only layer that talks to a user.
//
// It translates commands into identity and service calls, owns the
// session (the current principal, persisted as session.json in the
// document directory), and maps the error taxonomy onto user-facing
// messages and exit codes. It never reads or writes the store documents
// directly.
package cli
