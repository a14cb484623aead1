// Package store provides durable persistence for the analysis document.
//
// The document is kept as two sibling JSON files in the store directory:
//
//   - principals.json: object mapping folded name -> principal
//   - records.json: array of records
//
// Both files are written atomically: serialize to a sibling *.tmp path,
// fsync, then rename over the canonical path. A failed save leaves the
// previous content intact.
//
// Load never fails on bad content. A missing file yields an empty
// document; a malformed or schema-violating file is preserved under a
// .broken suffix and reported as a warning. The schema check uses an
// embedded CUE definition (schema.cue).
//
// Concurrent writers are not supported; the store assumes a single owning
// process.
package store
