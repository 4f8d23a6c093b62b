package usecase

import (
	"context"

	"blog/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePostInput is the body of a new post. The owner is never part of it.
type CreatePostInput struct {
	Title     string
	Slug      string
	Content   string
	Tags      []string
	Published bool
}

// UpdatePostInput is a partial update; nil fields keep their stored value.
type UpdatePostInput struct {
	Title     *string
	Slug      *string
	Content   *string
	Tags      []string
	SetTags   bool
	Published *bool
}

// RemovePostOutput acknowledges a deletion.
type RemovePostOutput struct {
	Deleted bool `json:"deleted"`
}

// ShareQROutput is a rendered share code for a post.
type ShareQROutput struct {
	URL string
	PNG []byte
}

// PostUsecase defines post CRUD, listing and sharing. Mutations require the
// requester's user id, taken from a verified identity.
type PostUsecase interface {
	Create(ctx context.Context, input *CreatePostInput, requesterID uuid.UUID) (*entity.Post, error)
	List(ctx context.Context, params entity.ListingParams) (*entity.PostPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdatePostInput, requesterID uuid.UUID) (*entity.Post, error)
	Remove(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*RemovePostOutput, error)
	ShareQR(ctx context.Context, slug string) (*ShareQROutput, error)
}
