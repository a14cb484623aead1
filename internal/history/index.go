package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/grimstre/introspect/internal/record"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS records (
	id           INTEGER PRIMARY KEY,
	author       TEXT NOT NULL,
	created_unix INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	narrative    TEXT NOT NULL,
	supporting   TEXT NOT NULL,
	opposing     TEXT NOT NULL,
	scheme       TEXT NOT NULL,
	score_value  REAL NOT NULL,
	score_band   TEXT NOT NULL,
	word_count   INTEGER NOT NULL,
	image_ref    TEXT NOT NULL DEFAULT '',
	audio_ref    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_records_author ON records(author);
CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_unix);
`

// Index is an in-memory SQLite read model over the document's records.
// The service rebuilds it after every mutation; queries never touch the
// document directly.
type Index struct {
	db *sql.DB
}

// NewIndex opens an empty in-memory index.
func NewIndex() (*Index, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// A single connection keeps the :memory: database alive and avoids
	// SQLITE_BUSY on rebuilds.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	if ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Rebuild replaces the index contents with the given records.
func (ix *Index) Rebuild(recs []record.Record) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("rebuild index: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("rebuild index: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records
		(id, author, created_unix, created_at, narrative, supporting, opposing, scheme, score_value, score_band, word_count, image_ref, audio_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("rebuild index: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range recs {
		supporting, err := json.Marshal(r.Supporting)
		if err != nil {
			return fmt.Errorf("rebuild index: marshal supporting: %w", err)
		}
		opposing, err := json.Marshal(r.Opposing)
		if err != nil {
			return fmt.Errorf("rebuild index: marshal opposing: %w", err)
		}
		_, err = stmt.Exec(
			r.ID,
			r.Author,
			r.CreatedAt.UnixNano(),
			r.CreatedAt.Format(time.RFC3339Nano),
			r.Narrative,
			string(supporting),
			string(opposing),
			r.Scheme,
			r.ScoreValue,
			r.ScoreBand,
			r.WordCount,
			r.ImageRef,
			r.AudioRef,
		)
		if err != nil {
			return fmt.Errorf("rebuild index: insert record %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rebuild index: commit: %w", err)
	}
	return nil
}

// Query runs a filter against the index and returns matching records.
func (ix *Index) Query(f Filter) ([]record.Record, error) {
	query, params := f.compile()
	rows, err := ix.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		var (
			r          record.Record
			createdAt  string
			supporting string
			opposing   string
		)
		err := rows.Scan(
			&r.ID, &r.Author, &createdAt, &r.Narrative,
			&supporting, &opposing,
			&r.Scheme, &r.ScoreValue, &r.ScoreBand, &r.WordCount,
			&r.ImageRef, &r.AudioRef,
		)
		if err != nil {
			return nil, fmt.Errorf("query index: scan: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("query index: parse created_at: %w", err)
		}
		if err := json.Unmarshal([]byte(supporting), &r.Supporting); err != nil {
			return nil, fmt.Errorf("query index: unmarshal supporting: %w", err)
		}
		if err := json.Unmarshal([]byte(opposing), &r.Opposing); err != nil {
			return nil, fmt.Errorf("query index: unmarshal opposing: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return out, nil
}
