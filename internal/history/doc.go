// Package history is the read side of the analysis log: filtered and
// ordered views over records, presentation rows, and export streams.
//
// Filtering runs through an in-memory SQLite index rebuilt from the
// document. Filters compile to parameterized SQL; values are never
// interpolated, and every query carries an ORDER BY with an id tiebreaker
// so results are deterministic.
//
// Exports come in two formats:
//
//   - CSV: header row plus one row per record, RFC 4180 quoting
//   - JSON: top-level array using the persisted field names
//
// Abandoning an export stream mid-write has no effect on document state.
package history
