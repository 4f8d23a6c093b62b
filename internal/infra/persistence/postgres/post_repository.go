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
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// searchQueryExpr parses free text the way a search box would.
const searchQueryExpr = "websearch_to_tsquery('simple', ?)"

// postRepository implements the domain.PostRepository interface using GORM.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (repo *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	return repo.first(ctx, "posts.id = ?", id)
}

func (repo *postRepository) FindBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return repo.first(ctx, "posts.slug = ?", slug)
}

// Create inserts the post. The slug unique index settles concurrent creates.
func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	if post.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "generate post id")
		}
		post.ID = id
	}

	postM := fromPostDomain(post)
	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		return translatePostWriteError(err, "failed to create post")
	}

	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt

	return nil
}

// Update overwrites the mutable columns. author_id is not in the column set.
func (repo *postRepository) Update(ctx context.Context, post *entity.Post) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":      post.Title,
			"slug":       post.Slug,
			"content":    post.Content,
			"tags":       datatypes.NewJSONSlice(nonNilTags(post.Tags)),
			"published":  post.Published,
			"updated_at": now,
		})
	if result.Error != nil {
		return translatePostWriteError(result.Error, "failed to update post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	post.UpdatedAt = now

	return nil
}

func (repo *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PostModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

// Query counts all matches, then loads one page with the authors preloaded.
func (repo *postRepository) Query(ctx context.Context, query repository.PostQuery) ([]*entity.Post, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Scopes(postFilter(query.Filter)).
		Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count posts")
	}
	if total == 0 || int64(query.Skip) >= total {
		return []*entity.Post{}, total, nil
	}

	var rows []*model.PostModel
	if err := repo.db.WithContext(ctx).
		Scopes(postFilter(query.Filter), postOrder(query), withAuthor).
		Offset(query.Skip).
		Limit(query.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to query posts")
	}

	posts := make([]*entity.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, toPostDomain(row))
	}

	return posts, total, nil
}

func (repo *postRepository) first(ctx context.Context, query string, arg any) (*entity.Post, error) {
	var postM model.PostModel
	if err := repo.db.WithContext(ctx).Scopes(withAuthor).Where(query, arg).First(&postM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find post")
	}

	return toPostDomain(&postM), nil
}

// withAuthor preloads only the public author columns; the hash never leaves the table.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "email")
	})
}

func postFilter(filter repository.PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID != nil {
			db = db.Where("posts.author_id = ?", *filter.AuthorID)
		}
		if filter.Tag != nil {
			// JSONB top-level element existence, served by the GIN index on tags.
			db = db.Where(datatypes.JSONArrayQuery("tags").Contains(*filter.Tag))
		}
		if filter.Published != nil {
			db = db.Where("posts.published = ?", *filter.Published)
		}
		if filter.Search != "" {
			db = db.Where("posts.search_vector @@ "+searchQueryExpr, filter.Search)
		}

		return db
	}
}

func postOrder(query repository.PostQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query.Sort == entity.SortRankDesc && query.Filter.Search != "" {
			return db.Order(clause.OrderBy{Expression: clause.Expr{
				SQL:  "ts_rank(posts.search_vector, " + searchQueryExpr + ") DESC, posts.created_at DESC, posts.id DESC",
				Vars: []any{query.Filter.Search},
			}})
		}

		return db.Order("posts.created_at DESC, posts.id DESC")
	}
}

func translatePostWriteError(err error, operation string) error {
	if isUniqueConstraintViolation(err) {
		return domainerrors.ErrDuplicateSlug.WrapMessage("slug already exists")
	}
	if isForeignKeyConstraintViolation(err) {
		return domainerrors.ErrUserNotFound.WrapMessage("author does not exist")
	}

	return domainerrors.NewDatabaseExecuteError(err, operation)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}

	return tags
}

// --- Mapper Functions ---

func toPostDomain(data *model.PostModel) *entity.Post {
	if data == nil {
		return nil
	}

	post := &entity.Post{
		ID:        data.ID,
		Title:     data.Title,
		Slug:      data.Slug,
		Content:   data.Content,
		Tags:      nonNilTags(data.Tags),
		Published: data.Published,
		AuthorID:  data.AuthorID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	if data.Author != nil {
		post.Author = &entity.PostAuthor{
			ID:    data.Author.ID,
			Name:  data.Author.Name,
			Email: data.Author.Email,
		}
	}

	return post
}

// fromPostDomain leaves Author unset so GORM never upserts the user row.
func fromPostDomain(data *entity.Post) *model.PostModel {
	return &model.PostModel{
		ID:        data.ID,
		Title:     data.Title,
		Slug:      data.Slug,
		Content:   data.Content,
		Tags:      datatypes.NewJSONSlice(nonNilTags(data.Tags)),
		Published: data.Published,
		AuthorID:  data.AuthorID,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
