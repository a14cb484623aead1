// Package record defines the data model for the analysis log: principals,
// records, and the document that owns both.
//
// A Document is the unit of persistence. It is owned exclusively by the
// service layer for the lifetime of a session; every read and write goes
// through that layer. The types here are plain data with no I/O and no
// host (UI) references.
//
// # Invariants
//
// After any successful service operation the Document satisfies:
//   - principal names are unique under Unicode case folding
//   - record ids are unique
//   - every record author exists as a principal
//   - element lists contain no empty strings and their union is non-empty
//   - creation timestamps are non-decreasing per author in insertion order
package record
