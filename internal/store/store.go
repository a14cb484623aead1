package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grimstre/introspect/internal/record"
)

const (
	principalsFile = "principals.json"
	recordsFile    = "records.json"
)

// Store persists the analysis document as JSON files in a directory.
type Store struct {
	dir string

	// rename is swapped out by tests to induce save failures after
	// serialization but before the canonical file is replaced.
	rename func(oldpath, newpath string) error
}

// New creates a store rooted at dir. The directory is created on first
// save if it does not exist.
func New(dir string) *Store {
	return &Store{dir: dir, rename: os.Rename}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// PrincipalsPath returns the canonical path of the principals file.
func (s *Store) PrincipalsPath() string {
	return filepath.Join(s.dir, principalsFile)
}

// RecordsPath returns the canonical path of the records file.
func (s *Store) RecordsPath() string {
	return filepath.Join(s.dir, recordsFile)
}

// Load reads the document from disk.
//
// A missing file yields an empty section. A malformed or schema-violating
// file is renamed to <name>.broken, reported as a warning, and replaced by
// an empty section; the load itself still succeeds. Only unexpected I/O
// errors (permissions, bad directory) are returned as errors.
func (s *Store) Load() (*record.Document, []Warning, error) {
	doc := record.NewDocument()
	var warnings []Warning

	warn, err := s.loadSection(s.PrincipalsPath(), validatePrincipals, &doc.Principals)
	if err != nil {
		return nil, nil, err
	}
	if warn != nil {
		doc.Principals = make(map[string]record.Principal)
		warnings = append(warnings, *warn)
	}

	warn, err = s.loadSection(s.RecordsPath(), validateRecords, &doc.Records)
	if err != nil {
		return nil, nil, err
	}
	if warn != nil {
		doc.Records = nil
		warnings = append(warnings, *warn)
	}

	return doc, warnings, nil
}

// loadSection reads one document file into target. Returns a non-nil
// warning for corrupt content, after moving the file aside.
func (s *Store) loadSection(path string, validate func([]byte) error, target any) (*Warning, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	if err := validate(data); err == nil {
		err = json.Unmarshal(data, target)
		if err == nil {
			return nil, nil
		}
	}

	// Corrupt content: preserve the original and fall back to empty.
	broken := path + ".broken"
	if err := s.rename(path, broken); err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: fmt.Errorf("preserve corrupt file: %w", err)}
	}
	return &Warning{
		Code:    WarnCorruptDocument,
		Path:    path,
		Message: fmt.Sprintf("unparseable content preserved as %s", filepath.Base(broken)),
	}, nil
}

// Save writes the document to disk atomically.
//
// Principals are written before records so the author-exists invariant
// holds even if the process dies between the two renames. Save is
// idempotent; saving an unchanged document rewrites identical bytes.
func (s *Store) Save(doc *record.Document) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: s.dir, Err: err}
	}

	principals, err := json.MarshalIndent(doc.Principals, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.PrincipalsPath(), Err: err}
	}
	records := doc.Records
	if records == nil {
		records = []record.Record{}
	}
	recordData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.RecordsPath(), Err: err}
	}

	if err := s.writeAtomic(s.PrincipalsPath(), principals); err != nil {
		return err
	}
	return s.writeAtomic(s.RecordsPath(), recordData)
}

// writeAtomic writes data to a sibling temporary path, syncs it, then
// renames over the canonical path.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &PersistenceError{Op: "save", Path: tmp, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &PersistenceError{Op: "save", Path: tmp, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &PersistenceError{Op: "save", Path: tmp, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &PersistenceError{Op: "save", Path: tmp, Err: err}
	}
	if err := s.rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}
