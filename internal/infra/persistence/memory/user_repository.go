package memory

import (
	"context"
	"time"

	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.data.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return rec.toUser(), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	credential, err := r.FindCredentialByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return credential.Safe(), nil
}

func (r *userRepository) FindCredentialByEmail(ctx context.Context, email string) (*entity.UserCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.data.usersByMail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	rec := r.store.data.users[id]

	return &entity.UserCredential{User: *rec.toUser(), PasswordHash: rec.passwordHash}, nil
}

func (r *userRepository) Create(ctx context.Context, credential *entity.UserCredential) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	if credential.User.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "generate user id")
		}
		credential.User.ID = id
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := entity.NormalizeEmail(credential.User.Email)
	if _, taken := r.store.data.usersByMail[key]; taken {
		return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
	}

	now := time.Now()
	credential.User.CreatedAt = now
	credential.User.UpdatedAt = now

	r.store.data.users[credential.User.ID] = userRecord{
		id:           credential.User.ID,
		email:        credential.User.Email,
		name:         credential.User.Name,
		passwordHash: credential.PasswordHash,
		createdAt:    now,
		updatedAt:    now,
	}
	r.store.data.usersByMail[key] = credential.User.ID

	return nil
}

func (r *userRepository) Update(ctx context.Context, credential *entity.UserCredential) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.data.users[credential.User.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	oldKey := entity.NormalizeEmail(rec.email)
	newKey := entity.NormalizeEmail(credential.User.Email)
	if newKey != oldKey {
		if _, taken := r.store.data.usersByMail[newKey]; taken {
			return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
		}
		delete(r.store.data.usersByMail, oldKey)
		r.store.data.usersByMail[newKey] = rec.id
	}

	rec.email = credential.User.Email
	rec.name = credential.User.Name
	if credential.PasswordHash != "" {
		rec.passwordHash = credential.PasswordHash
	}
	rec.updatedAt = time.Now()
	r.store.data.users[rec.id] = rec
	credential.User.UpdatedAt = rec.updatedAt

	return nil
}

// Delete removes the user and cascades to their posts.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.data.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	delete(r.store.data.users, id)
	delete(r.store.data.usersByMail, entity.NormalizeEmail(rec.email))
	for postID, post := range r.store.data.posts {
		if post.authorID == id {
			delete(r.store.data.posts, postID)
			delete(r.store.data.postsBySlug, post.slug)
		}
	}

	return nil
}

func (rec userRecord) toUser() *entity.User {
	return &entity.User{
		ID:        rec.id,
		Email:     rec.email,
		Name:      rec.name,
		CreatedAt: rec.createdAt,
		UpdatedAt: rec.updatedAt,
	}
}
