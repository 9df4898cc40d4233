// Package cryptox implements the credential store: salted one-way password
// digests and constant-time verification, backed by bcrypt.
package cryptox

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest of the password. The salt is
// randomized per call, so hashing the same password twice yields different
// digests; callers must not compare digests directly.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether password matches the stored digest.
// A malformed digest is treated as a mismatch, never an error.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
