package history

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/grimstre/introspect/internal/record"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// csvHeader is the fixed CSV column order.
var csvHeader = []string{
	"id", "created_at", "author", "narrative",
	"score_value", "score_band", "supporting_count", "opposing_count",
}

// Export writes records to w in the given format.
func Export(w io.Writer, recs []record.Record, format string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, recs)
	case FormatJSON:
		return WriteJSON(w, recs)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteCSV writes a header row plus one row per record. Quoting follows
// RFC 4180 (narratives with commas or quotes are quoted, embedded quotes
// doubled).
func WriteCSV(w io.Writer, recs []record.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range recs {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Format(time.RFC3339),
			r.Author,
			r.Narrative,
			strconv.FormatFloat(r.ScoreValue, 'g', -1, 64),
			r.ScoreBand,
			strconv.Itoa(len(r.Supporting)),
			strconv.Itoa(len(r.Opposing)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes a top-level array using the persisted field names.
// An empty input produces an empty array, never null.
func WriteJSON(w io.Writer, recs []record.Record) error {
	if recs == nil {
		recs = []record.Record{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
