package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type postRepository struct {
	store *Store
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.data.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}

	return r.toPost(rec), nil
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.data.postsBySlug[slug]
	if !ok {
		return nil, repository.ErrPostNotFound
	}

	return r.toPost(r.store.data.posts[id]), nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	if post.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "generate post id")
		}
		post.ID = id
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := r.store.data.postsBySlug[post.Slug]; taken {
		return domainerrors.ErrDuplicateSlug.WrapMessage("slug already exists")
	}
	if _, ok := r.store.data.users[post.AuthorID]; !ok {
		return domainerrors.ErrUserNotFound.WrapMessage("author does not exist")
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	r.store.data.posts[post.ID] = postRecord{
		id:        post.ID,
		title:     post.Title,
		slug:      post.Slug,
		content:   post.Content,
		tags:      slices.Clone(post.Tags),
		published: post.Published,
		authorID:  post.AuthorID,
		createdAt: now,
		updatedAt: now,
	}
	r.store.data.postsBySlug[post.Slug] = post.ID

	return nil
}

// Update keeps the stored author regardless of post.AuthorID.
func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.data.posts[post.ID]
	if !ok {
		return repository.ErrPostNotFound
	}

	if post.Slug != rec.slug {
		if _, taken := r.store.data.postsBySlug[post.Slug]; taken {
			return domainerrors.ErrDuplicateSlug.WrapMessage("slug already exists")
		}
		delete(r.store.data.postsBySlug, rec.slug)
		r.store.data.postsBySlug[post.Slug] = rec.id
	}

	rec.title = post.Title
	rec.slug = post.Slug
	rec.content = post.Content
	rec.tags = slices.Clone(post.Tags)
	rec.published = post.Published
	rec.updatedAt = time.Now()
	r.store.data.posts[rec.id] = rec
	post.UpdatedAt = rec.updatedAt

	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.data.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}

	delete(r.store.data.posts, id)
	delete(r.store.data.postsBySlug, rec.slug)

	return nil
}

type rankedPost struct {
	rec  postRecord
	rank int
}

// Query mirrors the PostgreSQL ordering: rank desc when searching, then
// created_at desc, then id desc.
func (r *postRepository) Query(ctx context.Context, query repository.PostQuery) ([]*entity.Post, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, errors.WithStack(err)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	terms := searchTerms(query.Filter.Search)
	matches := make([]rankedPost, 0, len(r.store.data.posts))
	for _, rec := range r.store.data.posts {
		if !matchesFilter(rec, query.Filter) {
			continue
		}
		rank, ok := searchRank(rec, terms)
		if !ok {
			continue
		}
		matches = append(matches, rankedPost{rec: rec, rank: rank})
	}

	byRank := query.Sort == entity.SortRankDesc && len(terms) > 0
	slices.SortFunc(matches, func(a, b rankedPost) int {
		if byRank {
			if c := cmp.Compare(b.rank, a.rank); c != 0 {
				return c
			}
		}
		if c := b.rec.createdAt.Compare(a.rec.createdAt); c != 0 {
			return c
		}

		return strings.Compare(b.rec.id.String(), a.rec.id.String())
	})

	total := int64(len(matches))
	start := min(max(query.Skip, 0), len(matches))
	end := len(matches)
	if query.Limit > 0 {
		end = min(start+query.Limit, len(matches))
	}

	posts := make([]*entity.Post, 0, end-start)
	for _, m := range matches[start:end] {
		posts = append(posts, r.toPost(m.rec))
	}

	return posts, total, nil
}

func matchesFilter(rec postRecord, filter repository.PostFilter) bool {
	if filter.AuthorID != nil && rec.authorID != *filter.AuthorID {
		return false
	}
	if filter.Tag != nil && !slices.Contains(rec.tags, *filter.Tag) {
		return false
	}
	if filter.Published != nil && rec.published != *filter.Published {
		return false
	}

	return true
}

func searchTerms(search string) []string {
	return strings.Fields(strings.ToLower(search))
}

// searchRank requires every term to occur in the title or content. Title hits
// weigh double, like the weighted tsvector in PostgreSQL.
func searchRank(rec postRecord, terms []string) (int, bool) {
	if len(terms) == 0 {
		return 0, true
	}

	title := strings.ToLower(rec.title)
	content := strings.ToLower(rec.content)
	rank := 0
	for _, term := range terms {
		hits := 2*strings.Count(title, term) + strings.Count(content, term)
		if hits == 0 {
			return 0, false
		}
		rank += hits
	}

	return rank, true
}

// toPost must be called with the read lock held.
func (r *postRepository) toPost(rec postRecord) *entity.Post {
	post := &entity.Post{
		ID:        rec.id,
		Title:     rec.title,
		Slug:      rec.slug,
		Content:   rec.content,
		Tags:      slices.Clone(rec.tags),
		Published: rec.published,
		AuthorID:  rec.authorID,
		CreatedAt: rec.createdAt,
		UpdatedAt: rec.updatedAt,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if author, ok := r.store.data.users[rec.authorID]; ok {
		post.Author = entity.AuthorFromUser(author.toUser())
	}

	return post
}
