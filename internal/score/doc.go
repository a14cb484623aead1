// Package score implements the scoring kernel: pure functions mapping
// element counts to a numeric value and an interpretation band.
//
// Every scheme is deterministic and total. Division-by-zero cases return
// the sentinel BandUndefined, never an error; the kernel has no failure
// path on valid inputs.
package score
