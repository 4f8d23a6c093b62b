package entity

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated caller of a single request, decoded from a
// verified session token. It is immutable for the lifetime of the request.
type Identity struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

// SessionToken is a freshly issued signed token and its validity window.
type SessionToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
