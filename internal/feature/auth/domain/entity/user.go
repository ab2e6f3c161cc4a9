// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	ID    uint
	Name  string
	Email string // unique, stored lower-cased

	// Password is the bcrypt hash. Plaintext passwords are never stored.
	Password string

	CreatedAt time.Time
	UpdatedAt time.Time
}
