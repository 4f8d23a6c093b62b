// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"
	"blog/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	userM, err := repo.first(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}

	return toUserDomain(userM), nil
}

// FindByEmail retrieves a single user by their normalized email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	userM, err := repo.first(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}

	return toUserDomain(userM), nil
}

// FindCredentialByEmail is the only read that returns the password hash.
func (repo *userRepository) FindCredentialByEmail(ctx context.Context, email string) (*entity.UserCredential, error) {
	userM, err := repo.first(ctx, "email = ?", email)
	if err != nil {
		return nil, err
	}

	return toCredentialDomain(userM), nil
}

// Create persists a new user. The email unique index settles concurrent
// registrations; a violation surfaces as ErrDuplicateEmail.
func (repo *userRepository) Create(ctx context.Context, credential *entity.UserCredential) error {
	if credential.User.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "generate user id")
		}
		credential.User.ID = id
	}

	userM := fromCredentialDomain(credential)
	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	credential.User.CreatedAt = userM.CreatedAt
	credential.User.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update writes the name and email, and the hash only when one is given.
func (repo *userRepository) Update(ctx context.Context, credential *entity.UserCredential) error {
	now := time.Now()
	updates := map[string]any{
		"email":      credential.User.Email,
		"name":       credential.User.Name,
		"updated_at": now,
	}
	if credential.PasswordHash != "" {
		updates["password_hash"] = credential.PasswordHash
	}

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", credential.User.ID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	credential.User.UpdatedAt = now

	return nil
}

// Delete removes a user. Their posts go with them through ON DELETE CASCADE.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

func (repo *userRepository) first(ctx context.Context, query string, arg any) (*model.UserModel, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user")
	}

	return &userM, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:        data.ID,
		Email:     data.Email,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func toCredentialDomain(data *model.UserModel) *entity.UserCredential {
	if data == nil {
		return nil
	}

	return &entity.UserCredential{
		User:         *toUserDomain(data),
		PasswordHash: data.PasswordHash,
	}
}

func fromCredentialDomain(data *entity.UserCredential) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.User.ID,
		Email:        data.User.Email,
		Name:         data.User.Name,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.User.CreatedAt,
		UpdatedAt:    data.User.UpdatedAt,
	}
}
