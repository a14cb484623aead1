package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/grimstre/introspect/internal/record"
)

// Session tracks the currently logged-in principal.
//
// The session belongs to the host adapter; the service never reads it and
// receives the editor name explicitly on every call.
type Session struct {
	// Token identifies the session. Opaque to everything but the host.
	Token string `json:"token"`

	// Name is the principal name as registered.
	Name string `json:"name"`

	// CreatedAt is when the session was opened.
	CreatedAt time.Time `json:"created_at"`
}

// NewSession opens a session for an authenticated principal.
func NewSession(p record.Principal, now time.Time) *Session {
	return &Session{
		Token:     uuid.Must(uuid.NewV7()).String(),
		Name:      p.Name,
		CreatedAt: now,
	}
}

// Current returns the logged-in principal name, or "" when logged out.
func (s *Session) Current() string {
	if s == nil {
		return ""
	}
	return s.Name
}
