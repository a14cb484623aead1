package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/grimstre/introspect/internal/identity"
)

// sessionFile is the host-owned session state in the document directory.
// It belongs to the CLI, not to the store documents.
const sessionFile = "session.json"

func (a *App) sessionPath() string {
	return filepath.Join(a.Config.DocumentPath, sessionFile)
}

// loadSession reads the persisted session, if any. A missing or
// unreadable session file means logged out.
func (a *App) loadSession() *identity.Session {
	data, err := os.ReadFile(a.sessionPath())
	if err != nil {
		return nil
	}
	var s identity.Session
	if err := json.Unmarshal(data, &s); err != nil || s.Name == "" {
		return nil
	}
	// The session names a principal that must still exist.
	if _, ok := a.Registry.Lookup(s.Name); !ok {
		return nil
	}
	return &s
}

// saveSession persists the session.
func (a *App) saveSession(s *identity.Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.Config.DocumentPath, 0o755); err != nil {
		return err
	}
	return os.WriteFile(a.sessionPath(), data, 0o600)
}

// clearSession logs out. Clearing an absent session is a no-op.
func (a *App) clearSession() error {
	err := os.Remove(a.sessionPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// requireLogin returns the current principal name or a command error
// telling the user to log in.
func (a *App) requireLogin() (string, error) {
	if s := a.loadSession(); s != nil {
		return s.Current(), nil
	}
	return "", &ExitError{Code: ExitFailure, Message: "not logged in (use 'introspect login')"}
}
