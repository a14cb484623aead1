package service

import (
	"fmt"
	"io"
	"time"

	"github.com/grimstre/introspect/internal/config"
	"github.com/grimstre/introspect/internal/history"
	"github.com/grimstre/introspect/internal/identity"
	"github.com/grimstre/introspect/internal/record"
	"github.com/grimstre/introspect/internal/score"
	"github.com/grimstre/introspect/internal/store"
)

// Service owns the analysis document and mediates all access to it.
type Service struct {
	cfg config.Config
	st  *store.Store
	doc *record.Document
	idx *history.Index
	now func() time.Time

	// nextID is the next record identifier to issue. Seeded from the
	// loaded document; never reused within a session even after deletes.
	nextID int64

	// dirty marks the history index as stale relative to the document.
	dirty bool
}

// Media carries optional opaque media handles for a record.
type Media struct {
	ImageRef string
	AudioRef string
}

// Patch describes a partial record update. Nil fields keep the current
// value; a pointer to the zero value clears it.
type Patch struct {
	Narrative  *string
	Supporting *[]string
	Opposing   *[]string
	Scheme     *string
	ImageRef   *string
	AudioRef   *string
}

// New creates a service over a loaded document. now supplies creation
// timestamps; pass time.Now outside tests.
func New(cfg config.Config, st *store.Store, doc *record.Document, now func() time.Time) (*Service, error) {
	idx, err := history.NewIndex()
	if err != nil {
		return nil, fmt.Errorf("new service: %w", err)
	}
	return &Service{
		cfg:    cfg,
		st:     st,
		doc:    doc,
		idx:    idx,
		now:    now,
		nextID: doc.NextID(),
		dirty:  true,
	}, nil
}

// Close releases the history index.
func (s *Service) Close() error {
	return s.idx.Close()
}

// Config returns the active configuration.
func (s *Service) Config() config.Config {
	return s.cfg
}

// Document exposes the owned document to the identity registry, which
// shares it. Hosts must not touch it.
func (s *Service) Document() *record.Document {
	return s.doc
}

// Save persists the current document. Used by the identity registry as
// its save callback.
func (s *Service) Save() error {
	if err := s.st.Save(s.doc); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Create validates the inputs, scores them, and appends a new record.
//
// The author must be a registered principal; the stored author name is
// the registered spelling regardless of the casing passed in. The new
// record's id is one greater than any id ever issued in this document,
// and its creation timestamp never moves backwards within an author.
func (s *Service) Create(author, narrative string, supporting, opposing []string, scheme string, media Media) (record.Record, error) {
	p, ok := s.doc.Principals[identity.Fold(author)]
	if !ok {
		return record.Record{}, validationf("author %q is not registered", author)
	}

	rec := record.Record{
		ID:        s.nextID,
		Author:    p.Name,
		Narrative: narrative,
		Scheme:    scheme,
		ImageRef:  media.ImageRef,
		AudioRef:  media.AudioRef,
	}
	rec.Supporting = record.TrimElements(supporting)
	rec.Opposing = record.TrimElements(opposing)
	if err := s.finish(&rec); err != nil {
		return record.Record{}, err
	}

	ts := s.now()
	if last, ok := s.doc.LastCreatedAt(p.Name); ok && ts.Before(last) {
		ts = last
	}
	rec.CreatedAt = ts

	s.doc.Records = append(s.doc.Records, rec)
	if err := s.st.Save(s.doc); err != nil {
		s.doc.Records = s.doc.Records[:len(s.doc.Records)-1]
		return record.Record{}, err
	}
	s.nextID++
	s.dirty = true
	return rec.Clone(), nil
}

// Update applies a patch to an existing record. Only the author may edit;
// validation and scoring run again over the patched state. Replaced
// store-owned media blobs are released after the save succeeds.
func (s *Service) Update(id int64, editor string, patch Patch) (record.Record, error) {
	i := s.doc.FindRecord(id)
	if i < 0 {
		return record.Record{}, &Error{Kind: KindNotFound, Message: fmt.Sprintf("record %d not found", id)}
	}
	old := s.doc.Records[i]
	if identity.Fold(old.Author) != identity.Fold(editor) {
		return record.Record{}, &Error{Kind: KindNotOwner, Message: fmt.Sprintf("record %d belongs to %s", id, old.Author)}
	}

	next := old.Clone()
	if patch.Narrative != nil {
		next.Narrative = *patch.Narrative
	}
	if patch.Supporting != nil {
		next.Supporting = record.TrimElements(*patch.Supporting)
	}
	if patch.Opposing != nil {
		next.Opposing = record.TrimElements(*patch.Opposing)
	}
	if patch.Scheme != nil {
		next.Scheme = *patch.Scheme
	}
	if patch.ImageRef != nil {
		next.ImageRef = *patch.ImageRef
	}
	if patch.AudioRef != nil {
		next.AudioRef = *patch.AudioRef
	}
	if err := s.finish(&next); err != nil {
		return record.Record{}, err
	}

	s.doc.Records[i] = next
	if err := s.st.Save(s.doc); err != nil {
		s.doc.Records[i] = old
		return record.Record{}, err
	}
	s.dirty = true

	if old.ImageRef != next.ImageRef {
		s.releaseBlob(old.ImageRef)
	}
	if old.AudioRef != next.AudioRef {
		s.releaseBlob(old.AudioRef)
	}
	return next.Clone(), nil
}

// Delete removes a record. Only the author may delete; a second delete of
// the same id reports NotFound. Media blobs owned by the record are
// released after the save succeeds.
func (s *Service) Delete(id int64, editor string) error {
	i := s.doc.FindRecord(id)
	if i < 0 {
		return &Error{Kind: KindNotFound, Message: fmt.Sprintf("record %d not found", id)}
	}
	old := s.doc.Records[i]
	if identity.Fold(old.Author) != identity.Fold(editor) {
		return &Error{Kind: KindNotOwner, Message: fmt.Sprintf("record %d belongs to %s", id, old.Author)}
	}

	s.doc.Records = append(s.doc.Records[:i], s.doc.Records[i+1:]...)
	if err := s.st.Save(s.doc); err != nil {
		s.doc.Records = append(s.doc.Records[:i], append([]record.Record{old}, s.doc.Records[i:]...)...)
		return err
	}
	s.dirty = true

	s.releaseBlob(old.ImageRef)
	s.releaseBlob(old.AudioRef)
	return nil
}

// List returns the records matching the filter, ordered by creation
// timestamp (descending unless the filter says otherwise).
func (s *Service) List(f history.Filter) ([]record.Record, error) {
	if f.Author != "" {
		// Match the registered spelling so case differences in the
		// filter still hit.
		if p, ok := s.doc.Principals[identity.Fold(f.Author)]; ok {
			f.Author = p.Name
		}
	}
	if err := s.refreshIndex(); err != nil {
		return nil, err
	}
	return s.idx.Query(f)
}

// Export writes the records matching the filter to w as CSV or JSON.
// Abandoning the stream leaves the document untouched.
func (s *Service) Export(w io.Writer, f history.Filter, format string) error {
	recs, err := s.List(f)
	if err != nil {
		return err
	}
	return history.Export(w, recs, format)
}

// ImportMedia copies a host file into the store's media directory and
// returns the opaque ref to attach to a record.
func (s *Service) ImportMedia(path string) (string, error) {
	return s.st.StoreBlob(path)
}

// finish revalidates a record's mutable fields and recomputes the derived
// scoring fields. The element lists must already be trimmed.
func (s *Service) finish(rec *record.Record) error {
	rec.WordCount = record.CountWords(rec.Narrative)
	if rec.WordCount > s.cfg.MaxWords {
		return validationf("narrative has %d words, limit is %d", rec.WordCount, s.cfg.MaxWords)
	}
	if len(rec.Supporting)+len(rec.Opposing) == 0 {
		return validationf("at least one supporting or opposing element is required")
	}
	if rec.Scheme == "" {
		rec.Scheme = s.cfg.SchemeDefault
	}
	fn, ok := score.ForScheme(rec.Scheme)
	if !ok {
		return validationf("unknown scoring scheme %q", rec.Scheme)
	}
	res := fn(len(rec.Supporting), len(rec.Opposing))
	rec.ScoreValue = res.Value
	rec.ScoreBand = string(res.Band)
	return nil
}

func (s *Service) refreshIndex() error {
	if !s.dirty {
		return nil
	}
	if err := s.idx.Rebuild(s.doc.Records); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// releaseBlob drops a store-owned blob. The document save has already
// succeeded at this point, so a failed cleanup is not surfaced as an
// operation failure; the blob is simply orphaned.
func (s *Service) releaseBlob(ref string) {
	if ref == "" {
		return
	}
	_ = s.st.ReleaseBlob(ref)
}
