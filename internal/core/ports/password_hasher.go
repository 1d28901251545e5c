package ports

// PasswordHasher is the one-way password verifier.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. A malformed hash is a
	// mismatch, not an error.
	Verify(plaintext, hash string) bool
}
