package history

import (
	"strings"
	"time"
)

// Filter selects and orders records for history views and exports.
//
// The zero value matches every record, newest first.
type Filter struct {
	// Author restricts to one principal name (exact match). Empty means
	// all authors.
	Author string

	// Scheme restricts to one scoring scheme tag. Empty means all.
	Scheme string

	// From and To bound the creation timestamp (inclusive). Zero values
	// leave the corresponding side open.
	From time.Time
	To   time.Time

	// Ascending orders by creation timestamp ascending. The default is
	// descending (newest first).
	Ascending bool

	// Offset and Limit paginate the result. Limit 0 means no limit.
	Offset int
	Limit  int
}

// compile translates the filter into a SQL query over the index table.
// All values are parameterized. The ORDER BY always carries an id
// tiebreaker for deterministic results.
func (f Filter) compile() (string, []any) {
	var (
		conds  []string
		params []any
	)
	if f.Author != "" {
		conds = append(conds, "author = ?")
		params = append(params, f.Author)
	}
	if f.Scheme != "" {
		conds = append(conds, "scheme = ?")
		params = append(params, f.Scheme)
	}
	if !f.From.IsZero() {
		conds = append(conds, "created_unix >= ?")
		params = append(params, f.From.UnixNano())
	}
	if !f.To.IsZero() {
		conds = append(conds, "created_unix <= ?")
		params = append(params, f.To.UnixNano())
	}

	var b strings.Builder
	b.WriteString("SELECT id, author, created_at, narrative, supporting, opposing, scheme, score_value, score_band, word_count, image_ref, audio_ref FROM records")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	b.WriteString(" ORDER BY created_unix " + dir + ", id " + dir)
	if f.Limit > 0 || f.Offset > 0 {
		limit := int64(f.Limit)
		if f.Limit <= 0 {
			limit = -1 // SQLite: no limit
		}
		b.WriteString(" LIMIT ? OFFSET ?")
		params = append(params, limit, int64(f.Offset))
	}
	return b.String(), params
}
