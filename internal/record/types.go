package record

import (
	"strings"
	"time"
)

// Principal is an identifiable author of records.
//
// The credential digest is opaque to everything outside the identity
// package; plaintext secrets are never stored.
type Principal struct {
	Name      string    `json:"name"`
	Digest    string    `json:"credential_digest"`
	CreatedAt time.Time `json:"created_at"`
}

// Record is the persisted unit of analysis: a narrative plus two ordered
// element lists and the scoring fields derived from them.
//
// Supporting and Opposing hold short textual items counted as evidence in
// favor of and against the narrative. ScoreValue and ScoreBand are always
// recomputed by the service on create and update; they are stored so that
// exports and history views need no scoring pass.
//
// ImageRef and AudioRef are opaque media handles. A missing handle is
// absence, not a flag value.
type Record struct {
	ID         int64     `json:"id"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
	Narrative  string    `json:"narrative"`
	Supporting []string  `json:"supporting"`
	Opposing   []string  `json:"opposing"`
	Scheme     string    `json:"scheme"`
	ScoreValue float64   `json:"score_value"`
	ScoreBand  string    `json:"score_band"`
	WordCount  int       `json:"word_count"`
	ImageRef   string    `json:"image_ref,omitempty"`
	AudioRef   string    `json:"audio_ref,omitempty"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := r
	c.Supporting = append([]string(nil), r.Supporting...)
	c.Opposing = append([]string(nil), r.Opposing...)
	return c
}

// Document is the full collection of principals and records as persisted.
//
// Principals is keyed by the case-folded principal name; the Principal
// value keeps the name as originally registered.
type Document struct {
	Principals map[string]Principal
	Records    []Record
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Principals: make(map[string]Principal)}
}

// Clone returns a deep copy of the document. The service takes a snapshot
// before every mutation so a failed save can roll back.
func (d *Document) Clone() *Document {
	c := &Document{
		Principals: make(map[string]Principal, len(d.Principals)),
		Records:    make([]Record, 0, len(d.Records)),
	}
	for k, p := range d.Principals {
		c.Principals[k] = p
	}
	for _, r := range d.Records {
		c.Records = append(c.Records, r.Clone())
	}
	return c
}

// FindRecord returns the index of the record with the given id, or -1.
func (d *Document) FindRecord(id int64) int {
	for i := range d.Records {
		if d.Records[i].ID == id {
			return i
		}
	}
	return -1
}

// NextID returns the next free record identifier. Identifiers increase
// monotonically within a document and stay stable across save/load.
func (d *Document) NextID() int64 {
	var max int64
	for i := range d.Records {
		if d.Records[i].ID > max {
			max = d.Records[i].ID
		}
	}
	return max + 1
}

// LastCreatedAt returns the creation timestamp of the author's most recent
// record in insertion order. ok is false if the author has no records.
func (d *Document) LastCreatedAt(author string) (last time.Time, ok bool) {
	for i := range d.Records {
		if d.Records[i].Author == author {
			last = d.Records[i].CreatedAt
			ok = true
		}
	}
	return last, ok
}

// CountWords counts whitespace-separated tokens. Empty strings contribute
// zero words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// TrimElements trims every element and drops the ones that are empty after
// trimming. The result preserves order; a nil or all-empty input yields an
// empty (non-nil) slice.
func TrimElements(elems []string) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if t := strings.TrimSpace(e); t != "" {
			out = append(out, t)
		}
	}
	return out
}
