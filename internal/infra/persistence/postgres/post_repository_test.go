package postgres

import (
	"context"
	"testing"
	"time"

	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postColumns = []string{"id", "title", "slug", "content", "tags", "published", "author_id", "created_at", "updated_at"}

func TestPostRepository_FindBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	postID := uuid.New()
	authorID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE posts.slug = \$1`).
		WithArgs("hello", 1).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(postID.String(), "Hello", "hello", "Hello world!", []byte(`["go","intro"]`), true, authorID.String(), now, now))
	mock.ExpectQuery(`SELECT "id","name","email" FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(authorID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(authorID.String(), "Ann", "ann@x.com"))

	post, err := repo.FindBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, postID, post.ID)
	assert.Equal(t, []string{"go", "intro"}, post.Tags)
	assert.True(t, post.Published)
	require.NotNil(t, post.Author)
	assert.Equal(t, authorID, post.Author.ID)
	assert.Equal(t, "Ann", post.Author.Name)
	assert.Equal(t, "ann@x.com", post.Author.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE posts.id = \$1`).
		WillReturnRows(sqlmock.NewRows(postColumns))

	post, err := repo.FindByID(context.Background(), uuid.New())
	assert.Nil(t, post)
	assert.True(t, errors.Is(err, repository.ErrPostNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Create(t *testing.T) {
	newPost := func() *entity.Post {
		return &entity.Post{
			Title:    "Hello",
			Slug:     "hello",
			Content:  "Hello world!",
			Tags:     []string{"go"},
			AuthorID: uuid.New(),
		}
	}

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectExec(`INSERT INTO "posts"`).WillReturnResult(sqlmock.NewResult(0, 1))

		post := newPost()
		require.NoError(t, repo.Create(context.Background(), post))
		assert.NotEqual(t, uuid.Nil, post.ID)
		assert.False(t, post.CreatedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate slug", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectExec(`INSERT INTO "posts"`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "posts_slug_key"})

		err := repo.Create(context.Background(), newPost())
		assert.True(t, errors.Is(err, domainerrors.ErrDuplicateSlug))
	})

	t.Run("unknown author", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostRepository(db)

		mock.ExpectExec(`INSERT INTO "posts"`).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err := repo.Create(context.Background(), newPost())
		assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
	})
}

func TestPostRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	post := &entity.Post{ID: uuid.New(), Title: "Hello", Slug: "hello-2", Content: "Hello world!"}

	mock.ExpectExec(`UPDATE "posts" SET .* WHERE id = \$\d+`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), post))

	mock.ExpectExec(`UPDATE "posts" SET`).WillReturnError(&pgconn.PgError{Code: "23505"})
	assert.True(t, errors.Is(repo.Update(context.Background(), post), domainerrors.ErrDuplicateSlug))

	mock.ExpectExec(`UPDATE "posts" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, errors.Is(repo.Update(context.Background(), post), repository.ErrPostNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Update_NeverWritesAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	// Six SET values plus the id in the WHERE clause.
	mock.ExpectExec(`UPDATE "posts" SET`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	post := &entity.Post{ID: uuid.New(), AuthorID: uuid.New(), Title: "t", Slug: "s", Content: "c"}
	require.NoError(t, repo.Update(context.Background(), post))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`DELETE FROM "posts" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), uuid.New()))

	mock.ExpectExec(`DELETE FROM "posts"`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, errors.Is(repo.Delete(context.Background(), uuid.New()), repository.ErrPostNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Query_Filters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	authorID := uuid.New()
	tag := "go"
	published := true
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE posts.author_id = \$1 AND "tags" \? \$2 AND posts.published = \$3`).
		WithArgs(authorID.String(), "go", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE .* ORDER BY posts.created_at DESC, posts.id DESC LIMIT \$4 OFFSET \$5`).
		WithArgs(authorID.String(), "go", true, 5, 10).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(uuid.NewString(), "Eleven", "eleven", "content 11", []byte(`["go"]`), true, authorID.String(), now, now).
			AddRow(uuid.NewString(), "Twelve", "twelve", "content 12", []byte(`["go"]`), true, authorID.String(), now, now))
	mock.ExpectQuery(`FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(authorID.String(), "Ann", "ann@x.com"))

	posts, total, err := repo.Query(context.Background(), repository.PostQuery{
		Filter: repository.PostFilter{AuthorID: &authorID, Tag: &tag, Published: &published},
		Sort:   entity.SortCreatedDesc,
		Skip:   10,
		Limit:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, posts, 2)
	for _, post := range posts {
		require.NotNil(t, post.Author)
		assert.Equal(t, "Ann", post.Author.Name)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Query_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts" WHERE posts.search_vector @@ websearch_to_tsquery\('simple', \$1\)`).
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY ts_rank\(posts.search_vector, websearch_to_tsquery\('simple', \$2\)\) DESC, posts.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(postColumns))

	posts, total, err := repo.Query(context.Background(), repository.PostQuery{
		Filter: repository.PostFilter{Search: "golang"},
		Sort:   entity.SortRankDesc,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, posts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Query_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	posts, total, err := repo.Query(context.Background(), repository.PostQuery{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Query_CountFails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).WillReturnError(errors.New("boom"))

	_, _, err := repo.Query(context.Background(), repository.PostQuery{Limit: 10})
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.HTTPCode())
}
