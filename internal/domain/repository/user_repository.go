// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"blog/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// Implementations enforce email uniqueness and translate a violation into
// domainerrors.ErrDuplicateEmail. Emails are passed already normalized.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves the safe projection of a user by email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindCredentialByEmail retrieves the user including the password hash.
	FindCredentialByEmail(ctx context.Context, email string) (*entity.UserCredential, error)

	// Create persists a new credential and fills in the generated fields.
	Create(ctx context.Context, credential *entity.UserCredential) error

	// Update modifies the name, email and, when non-empty, the password hash.
	Update(ctx context.Context, credential *entity.UserCredential) error

	// Delete removes a user.
	Delete(ctx context.Context, id uuid.UUID) error
}
