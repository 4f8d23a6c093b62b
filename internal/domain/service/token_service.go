package service

import (
	"time"

	"blog/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the claims carried by a session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// Issue signs a token for the subject that expires after TTL.
	Issue(userID uuid.UUID, email string) (*entity.SessionToken, error)

	// Verify checks signature and expiry. Every failure is reported as
	// domainerrors.ErrInvalidToken without saying which check failed.
	Verify(token string) (*entity.Identity, error)

	// TTL returns the configured token lifetime.
	TTL() time.Duration
}
