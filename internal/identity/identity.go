package identity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/grimstre/introspect/internal/record"
)

// Fold returns the canonical form of a principal name for uniqueness
// comparison. Uses Unicode case folding, not simple lowercasing, so that
// names like "STRASSE" and "straße" collide.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// Registry registers and authenticates principals against a document.
//
// The registry shares the document with the service layer; the save
// callback persists it. Register is the only mutating operation, and it
// rolls the document back if the save fails.
type Registry struct {
	doc  *record.Document
	save func() error
	now  func() time.Time
}

// NewRegistry creates a registry over the given document. save persists
// the document after a successful registration.
func NewRegistry(doc *record.Document, save func() error, now func() time.Time) *Registry {
	return &Registry{doc: doc, save: save, now: now}
}

// Register creates a new principal.
//
// Fails with ErrCodeInvalidName if the name is empty after trimming or
// contains control characters, and with ErrCodeNameTaken on a
// case-insensitive collision. On failure no principal is created.
func (r *Registry) Register(name, secret string) (record.Principal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return record.Principal{}, &Error{Code: ErrCodeInvalidName, Message: "name is empty"}
	}
	if strings.ContainsFunc(name, unicode.IsControl) {
		return record.Principal{}, &Error{Code: ErrCodeInvalidName, Message: "name contains control characters"}
	}

	key := Fold(name)
	if _, exists := r.doc.Principals[key]; exists {
		return record.Principal{}, &Error{Code: ErrCodeNameTaken, Message: fmt.Sprintf("name %q is already registered", name)}
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return record.Principal{}, fmt.Errorf("digest secret: %w", err)
	}

	p := record.Principal{
		Name:      name,
		Digest:    string(digest),
		CreatedAt: r.now(),
	}
	r.doc.Principals[key] = p

	if err := r.save(); err != nil {
		delete(r.doc.Principals, key)
		return record.Principal{}, err
	}
	return p, nil
}

// Authenticate verifies a name/secret pair and returns the principal.
//
// Unknown names and wrong secrets both fail with ErrCodeInvalidCredentials
// so a caller cannot probe which names exist.
func (r *Registry) Authenticate(name, secret string) (record.Principal, error) {
	p, ok := r.doc.Principals[Fold(strings.TrimSpace(name))]
	if !ok {
		return record.Principal{}, &Error{Code: ErrCodeInvalidCredentials, Message: "invalid credentials"}
	}
	if bcrypt.CompareHashAndPassword([]byte(p.Digest), []byte(secret)) != nil {
		return record.Principal{}, &Error{Code: ErrCodeInvalidCredentials, Message: "invalid credentials"}
	}
	return p, nil
}

// Lookup returns the principal registered under the given name, matched
// case-insensitively.
func (r *Registry) Lookup(name string) (record.Principal, bool) {
	p, ok := r.doc.Principals[Fold(strings.TrimSpace(name))]
	return p, ok
}
