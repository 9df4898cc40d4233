// Package models holds the server-side domain entities. Every entity below
// the user level belongs to exactly one user through the
// User > Program > {Session > Measurement, PhaseSetting} ownership chain.
package models

// User is a registered account. The password is stored only as a salted
// one-way digest.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}
