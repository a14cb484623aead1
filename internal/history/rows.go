package history

import (
	"strconv"

	"github.com/grimstre/introspect/internal/record"
)

// Row is one history line shaped for presentation: formatted timestamp,
// author, truncated narrative, and the scoring summary.
type Row struct {
	When       string `json:"when"`
	Author     string `json:"author"`
	Preview    string `json:"preview"`
	Score      string `json:"score"`
	Band       string `json:"band"`
	Supporting int    `json:"supporting"`
	Opposing   int    `json:"opposing"`
}

// rowTimeLayout is ISO-8601 at minute precision.
const rowTimeLayout = "2006-01-02T15:04"

// Rows shapes records into presentation rows. previewChars bounds the
// narrative preview; longer narratives are truncated with an ellipsis.
func Rows(recs []record.Record, previewChars int) []Row {
	rows := make([]Row, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, Row{
			When:       r.CreatedAt.Format(rowTimeLayout),
			Author:     r.Author,
			Preview:    Preview(r.Narrative, previewChars),
			Score:      strconv.FormatFloat(r.ScoreValue, 'f', 3, 64),
			Band:       r.ScoreBand,
			Supporting: len(r.Supporting),
			Opposing:   len(r.Opposing),
		})
	}
	return rows
}

// Preview truncates a narrative to max runes, appending an ellipsis when
// anything was cut.
func Preview(narrative string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(narrative)
	if len(runes) <= max {
		return narrative
	}
	return string(runes[:max]) + "..."
}
