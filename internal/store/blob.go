package store

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// mediaDir is the subdirectory that holds imported media blobs.
const mediaDir = "media"

// StoreBlob copies the file at src into the store's media directory and
// returns an opaque ref for it. The record that carries the ref owns the
// blob; ReleaseBlob deletes it once the record is gone.
func (s *Store) StoreBlob(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", &PersistenceError{Op: "blob", Path: src, Err: err}
	}
	defer in.Close()

	dir := filepath.Join(s.dir, mediaDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &PersistenceError{Op: "blob", Path: dir, Err: err}
	}

	name := uuid.Must(uuid.NewV7()).String() + strings.ToLower(filepath.Ext(src))
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", &PersistenceError{Op: "blob", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", &PersistenceError{Op: "blob", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", &PersistenceError{Op: "blob", Path: dst, Err: err}
	}
	return path.Join(mediaDir, name), nil
}

// ReleaseBlob deletes a blob owned by the store. Refs that do not point
// into the media directory are treated as caller-owned paths and left
// alone. Releasing an already-deleted blob is a no-op.
func (s *Store) ReleaseBlob(ref string) error {
	if !s.Owns(ref) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(ref)))
	if err != nil && !os.IsNotExist(err) {
		return &PersistenceError{Op: "blob", Path: ref, Err: err}
	}
	return nil
}

// Owns reports whether a media ref points into the store's media
// directory.
func (s *Store) Owns(ref string) bool {
	if ref == "" {
		return false
	}
	clean := path.Clean(ref)
	return strings.HasPrefix(clean, mediaDir+"/") && !strings.Contains(clean, "..")
}

// BlobPath resolves a store-owned ref to an absolute path. Caller-owned
// refs are returned unchanged.
func (s *Store) BlobPath(ref string) string {
	if s.Owns(ref) {
		return filepath.Join(s.dir, filepath.FromSlash(ref))
	}
	return ref
}
