// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the safe view of an account. It never carries the password hash and
// is the only user shape returned across the usecase boundary.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserCredential is a User together with its password hash. Only the
// authentication usecase and the store implementations handle this type.
type UserCredential struct {
	User         User
	PasswordHash string
}

// Safe returns a copy of the user without the hash.
func (c *UserCredential) Safe() *User {
	if c == nil {
		return nil
	}
	u := c.User

	return &u
}

// NormalizeEmail returns the canonical form used for storage and lookups.
// Emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
