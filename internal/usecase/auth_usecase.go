// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"blog/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// LoginOutput carries the issued session token and the safe user view.
type LoginOutput struct {
	Token *entity.SessionToken
	User  *entity.User
}

// AuthUsecase defines registration, login and session resolution.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates an account. The email is normalized before the
	// uniqueness check and the returned user never carries the hash.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)

	// Login verifies the credentials and issues a session token. Unknown email
	// and wrong password fail with the same error.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// CurrentIdentity resolves a session token into the caller's identity.
	CurrentIdentity(ctx context.Context, token string) (*entity.Identity, error)
}
