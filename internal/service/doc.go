// Package service mediates every mutation of the analysis document:
// record creation, update, deletion, and querying.
//
// The service owns the document exclusively for the lifetime of a
// session. All operations are atomic with respect to it: either the new
// state is saved and returned, or the in-memory state is rolled back and
// an error is returned. Scoring always goes through the kernel in
// internal/score, so the derived fields on a record are consistent with
// its element counts after every successful call.
//
// Operations run on the host's single logical thread; the service does no
// locking of its own.
package service
