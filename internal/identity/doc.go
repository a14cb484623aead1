// Package identity implements registration and authentication of
// principals, plus the session that tracks who is currently logged in.
//
// Principal names are unique under Unicode case folding. Credentials are
// stored as bcrypt digests; the plaintext secret never reaches the
// document.
package identity
