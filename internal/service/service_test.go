package service

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grimstre/introspect/internal/config"
	"github.com/grimstre/introspect/internal/history"
	"github.com/grimstre/introspect/internal/identity"
	"github.com/grimstre/introspect/internal/store"
	"github.com/grimstre/introspect/internal/testutil"
)

type fixture struct {
	svc *Service
	st  *store.Store
	reg *identity.Registry
	dir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DocumentPath = dir

	st := store.New(dir)
	doc, warnings, err := st.Load()
	require.NoError(t, err)
	require.Empty(t, warnings)

	clock := testutil.NewFixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Minute)
	svc, err := New(cfg, st, doc, clock.Now)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	reg := identity.NewRegistry(doc, svc.Save, clock.Now)
	for _, name := range []string{"alice", "bob"} {
		_, err := reg.Register(name, "secret")
		require.NoError(t, err)
	}
	return &fixture{svc: svc, st: st, reg: reg, dir: dir}
}

func TestCreateScoresAndPersists(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "test", []string{"a", "b", "c"}, []string{"x"}, "", Media{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "alice", rec.Author)
	assert.InDelta(t, 0.25, rec.ScoreValue, 1e-9)
	assert.Equal(t, "low", rec.ScoreBand)
	assert.Equal(t, "dissonance", rec.Scheme)
	assert.Equal(t, 1, rec.WordCount)

	// Survives a reload through the store.
	loaded, _, err := f.st.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Records, 1)
	assert.Equal(t, rec.ID, loaded.Records[0].ID)
	assert.InDelta(t, 0.25, loaded.Records[0].ScoreValue, 1e-9)
}

func TestCreateBalancedElements(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "balanced case", []string{"a"}, []string{"x"}, "", Media{})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rec.ScoreValue, 1e-9)
	assert.Equal(t, "moderate", rec.ScoreBand)
}

func TestCreateAllOpposing(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "purely against", nil, []string{"x", "y", "z"}, "", Media{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rec.ScoreValue, 1e-9)
	assert.Equal(t, "very-high", rec.ScoreBand)
}

func TestCreateRejectsEmptyElements(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create("alice", "no evidence at all", nil, nil, "", Media{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Whitespace-only elements count as empty.
	_, err = f.svc.Create("alice", "still nothing", []string{"  "}, []string{""}, "", Media{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	assert.Empty(t, f.svc.Document().Records)
}

func TestCreateRejectsOverlongNarrative(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DocumentPath = dir
	cfg.MaxWords = 10

	st := store.New(dir)
	doc, _, err := st.Load()
	require.NoError(t, err)
	svc, err := New(cfg, st, doc, time.Now)
	require.NoError(t, err)
	defer svc.Close()
	reg := identity.NewRegistry(doc, svc.Save, time.Now)
	_, err = reg.Register("alice", "secret")
	require.NoError(t, err)

	narrative := strings.Repeat("word ", cfg.MaxWords+1)
	_, err = svc.Create("alice", narrative, []string{"a"}, nil, "", Media{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, doc.Records)
}

func TestCreateRejectsUnknownAuthorAndScheme(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create("carol", "not registered", []string{"a"}, nil, "", Media{})
	assert.True(t, IsValidation(err))

	_, err = f.svc.Create("alice", "bad scheme", []string{"a"}, nil, "no-such-scheme", Media{})
	assert.True(t, IsValidation(err))
}

func TestCreateCanonicalizesAuthorSpelling(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("ALICE", "case play", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Author)
}

func TestCreateTimestampsNeverRegress(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DocumentPath = dir
	st := store.New(dir)
	doc, _, err := st.Load()
	require.NoError(t, err)

	clock := testutil.NewFixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), time.Minute)
	svc, err := New(cfg, st, doc, clock.Now)
	require.NoError(t, err)
	defer svc.Close()
	reg := identity.NewRegistry(doc, svc.Save, clock.Now)
	_, err = reg.Register("alice", "secret")
	require.NoError(t, err)

	first, err := svc.Create("alice", "one", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)

	// Wall clock jumps backwards (DST shift, NTP correction).
	clock.Set(first.CreatedAt.Add(-time.Hour))
	second, err := svc.Create("alice", "two", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)

	assert.False(t, second.CreatedAt.Before(first.CreatedAt))
}

func TestCreateIDsNeverReused(t *testing.T) {
	f := newFixture(t)

	r1, err := f.svc.Create("alice", "one", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)
	r2, err := f.svc.Create("alice", "two", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(r2.ID, "alice"))

	r3, err := f.svc.Create("alice", "three", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)
	assert.Greater(t, r3.ID, r2.ID)
	assert.Greater(t, r2.ID, r1.ID)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "original", []string{"a"}, []string{"x"}, "", Media{})
	require.NoError(t, err)

	narrative := "revised words here"
	opposing := []string{"x", "y", "z"}
	updated, err := f.svc.Update(rec.ID, "alice", Patch{Narrative: &narrative, Opposing: &opposing})
	require.NoError(t, err)

	assert.Equal(t, "revised words here", updated.Narrative)
	assert.Equal(t, 3, updated.WordCount)
	assert.InDelta(t, 0.75, updated.ScoreValue, 1e-9)
	assert.Equal(t, "high", updated.ScoreBand)
	assert.True(t, updated.CreatedAt.Equal(rec.CreatedAt), "creation time is immutable")
}

func TestUpdateOwnershipEnforced(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "hers", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)

	narrative := "tampered"
	_, err = f.svc.Update(rec.ID, "bob", Patch{Narrative: &narrative})
	require.Error(t, err)
	assert.True(t, IsNotOwner(err))

	// Document unchanged.
	assert.Equal(t, "hers", f.svc.Document().Records[0].Narrative)
}

func TestUpdateValidationRollsBack(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "fine", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)

	empty := []string{}
	_, err = f.svc.Update(rec.ID, "alice", Patch{Supporting: &empty})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, []string{"a"}, f.svc.Document().Records[0].Supporting)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "doomed", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)

	require.Error(t, f.svc.Delete(rec.ID, "bob"))
	assert.True(t, IsNotOwner(f.svc.Delete(rec.ID, "bob")))

	require.NoError(t, f.svc.Delete(rec.ID, "alice"))
	assert.Empty(t, f.svc.Document().Records)

	err = f.svc.Delete(rec.ID, "alice")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSaveFailureRollsBackCreate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create("alice", "kept", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)

	// Make the records file unreplaceable: rename onto a directory fails.
	require.NoError(t, os.Remove(f.st.RecordsPath()))
	require.NoError(t, os.Mkdir(f.st.RecordsPath(), 0o755))

	_, err = f.svc.Create("alice", "lost", []string{"a"}, nil, "", Media{})
	require.Error(t, err)
	assert.True(t, store.IsPersistenceFailure(err))

	require.NoError(t, os.Remove(f.st.RecordsPath()))

	doc := f.svc.Document()
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "kept", doc.Records[0].Narrative)

	// The failed attempt did not burn the identifier.
	rec, err := f.svc.Create("alice", "retry", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.ID)
}

func TestListOrderingAndFilters(t *testing.T) {
	f := newFixture(t)

	for i, narrative := range []string{"one", "two", "three"} {
		author := "alice"
		if i == 1 {
			author = "bob"
		}
		_, err := f.svc.Create(author, narrative, []string{"a"}, nil, "", Media{})
		require.NoError(t, err)
	}

	recs, err := f.svc.List(history.Filter{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "three", recs[0].Narrative, "newest first by default")

	// Author filter is case-insensitive against the registered spelling.
	recs, err = f.svc.List(history.Filter{Author: "BOB"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "two", recs[0].Narrative)

	recs, err = f.svc.List(history.Filter{Ascending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "one", recs[0].Narrative)
}

func TestListSeesUpdatesAndDeletes(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.Create("alice", "before", []string{"a"}, nil, "", Media{})
	require.NoError(t, err)

	_, err = f.svc.List(history.Filter{})
	require.NoError(t, err)

	narrative := "after"
	_, err = f.svc.Update(rec.ID, "alice", Patch{Narrative: &narrative})
	require.NoError(t, err)

	recs, err := f.svc.List(history.Filter{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "after", recs[0].Narrative)

	require.NoError(t, f.svc.Delete(rec.ID, "alice"))
	recs, err = f.svc.List(history.Filter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestExportStreamsMatchingRecords(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create("alice", "exported", []string{"a"}, []string{"x"}, "", Media{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(&buf, history.Filter{}, history.FormatCSV))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "id,created_at,author,"), "header row first")
	assert.Contains(t, out, "exported")

	buf.Reset()
	require.NoError(t, f.svc.Export(&buf, history.Filter{}, history.FormatJSON))
	assert.Contains(t, buf.String(), `"narrative": "exported"`)

	err = f.svc.Export(&buf, history.Filter{}, "xml")
	assert.Error(t, err)
}

func TestMediaLifecycle(t *testing.T) {
	f := newFixture(t)

	src := filepath.Join(f.dir, "cap.png")
	require.NoError(t, os.WriteFile(src, []byte("img"), 0o644))
	ref, err := f.svc.ImportMedia(src)
	require.NoError(t, err)

	rec, err := f.svc.Create("alice", "with media", []string{"a"}, nil, "", Media{ImageRef: ref})
	require.NoError(t, err)
	assert.Equal(t, ref, rec.ImageRef)

	// Clearing the ref releases the stored blob.
	cleared := ""
	_, err = f.svc.Update(rec.ID, "alice", Patch{ImageRef: &cleared})
	require.NoError(t, err)
	_, err = os.Stat(f.st.BlobPath(ref))
	assert.True(t, os.IsNotExist(err))
}
