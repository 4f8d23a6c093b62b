package repository

import (
	"context"
	"errors"

	"blog/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPostNotFound is returned when a post is not found.
var ErrPostNotFound = errors.New("post not found")

// PostFilter is the predicate set of a listing query. Nil fields do not filter.
type PostFilter struct {
	AuthorID  *uuid.UUID
	Tag       *string
	Published *bool
	// Search switches the query into ranked full-text mode when non-empty.
	Search string
}

// PostQuery is what the store executes for a listing.
type PostQuery struct {
	Filter PostFilter
	Sort   entity.PostSort
	Skip   int
	Limit  int
}

// NewPostQuery converts a validated plan into a store query.
func NewPostQuery(plan entity.ListingQueryPlan) PostQuery {
	return PostQuery{
		Filter: PostFilter{
			AuthorID:  plan.AuthorID,
			Tag:       plan.Tag,
			Published: plan.Published,
			Search:    plan.Search,
		},
		Sort:  plan.Sort,
		Skip:  plan.Skip(),
		Limit: plan.Limit,
	}
}

// PostRepository defines the operations for post persistence. Implementations
// enforce slug uniqueness and translate a violation into
// domainerrors.ErrDuplicateSlug. Every returned post has Author populated with
// the owner's public fields.
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Post, error)
	Create(ctx context.Context, post *entity.Post) error
	// Update overwrites the mutable fields; AuthorID is never written.
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Query returns one page of posts plus the total number of matches.
	Query(ctx context.Context, query PostQuery) ([]*entity.Post, int64, error)
}
