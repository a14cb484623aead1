package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/grimstre/introspect/internal/record"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten..", 13, "exactly ten.."},
		{"this one is too long", 7, "this on..."},
		{"héllo wörld", 5, "héllo..."},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Preview(tt.in, tt.max), "input %q max %d", tt.in, tt.max)
	}
}

func TestRows(t *testing.T) {
	recs := []record.Record{{
		ID:         1,
		Author:     "alice",
		CreatedAt:  time.Date(2026, 3, 1, 9, 5, 30, 0, time.UTC),
		Narrative:  "a narrative that runs on far past the preview window",
		Supporting: []string{"a", "b"},
		Opposing:   []string{"x"},
		ScoreValue: 1.0 / 3.0,
		ScoreBand:  "moderate",
	}}

	rows := Rows(recs, 20)
	assert.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "2026-03-01T09:05", row.When)
	assert.Equal(t, "alice", row.Author)
	assert.Equal(t, "a narrative that run...", row.Preview)
	assert.Equal(t, "0.333", row.Score)
	assert.Equal(t, "moderate", row.Band)
	assert.Equal(t, 2, row.Supporting)
	assert.Equal(t, 1, row.Opposing)
}

func TestRowsEmpty(t *testing.T) {
	assert.Empty(t, Rows(nil, 50))
}
