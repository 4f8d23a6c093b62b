package impl

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"
	"blog/internal/domain/service"
	"blog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestBlogScenario walks the whole flow for a single author: register, login,
// resolve the session, publish, collide on the slug, get blocked by ownership
// and list with an oversized limit.
func TestBlogScenario(t *testing.T) {
	fx := newBlogFixtures(t)
	ctx := context.Background()

	ann, err := fx.auth.Register(ctx, &usecase.RegisterInput{Name: "Ann", Email: "ann@x.io", Password: "s3cretpass"})
	require.NoError(t, err)

	login, err := fx.auth.Login(ctx, &usecase.LoginInput{Email: "ann@x.io", Password: "s3cretpass"})
	require.NoError(t, err)

	identity, err := fx.auth.CurrentIdentity(ctx, login.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, identity.UserID)
	assert.Equal(t, "ann@x.io", identity.Email)

	hello, err := fx.posts.Create(ctx, &usecase.CreatePostInput{
		Title:   "Hello",
		Slug:    "hello",
		Content: "hello world!!",
	}, identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, ann.ID, hello.AuthorID)
	require.NotNil(t, hello.Author)
	assert.Equal(t, "Ann", hello.Author.Name)

	_, err = fx.posts.Create(ctx, &usecase.CreatePostInput{
		Title:   "Hello again",
		Slug:    "hello",
		Content: "hello world again",
	}, identity.UserID)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateSlug)

	bob := fx.register(t, "Bob", "bob@x.io")
	_, err = fx.posts.Update(ctx, hello.ID, &usecase.UpdatePostInput{Title: ptr("Hijacked")}, bob.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	for i := range 60 {
		fx.createPost(t, ann.ID, fmt.Sprintf("bulk-%02d", i))
	}

	page, err := fx.posts.List(ctx, entity.ListingParams{Limit: "999"})
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
	assert.LessOrEqual(t, len(page.Items), 50)
	assert.Equal(t, int64(61), page.Total)
	for _, item := range page.Items {
		require.NotNil(t, item.Author)
		assert.Equal(t, ann.ID, item.Author.ID)
	}
}

func TestPostService_Create_IgnoresCallerOwnership(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")

	post := fx.createPost(t, ann.ID, "  My_First Post ", "go", " go ", "", "web")

	assert.Equal(t, "my-first-post", post.Slug)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	assert.Equal(t, ann.ID, post.AuthorID)
	assert.Equal(t, []string{service.PostEventCreated}, fx.publisher.types())
}

func TestPostService_Create_Validation(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")

	tests := []struct {
		name  string
		input usecase.CreatePostInput
	}{
		{"short title", usecase.CreatePostInput{Title: "Hi", Slug: "hello", Content: "long enough content"}},
		{"short slug", usecase.CreatePostInput{Title: "Hello", Slug: "!!", Content: "long enough content"}},
		{"short content", usecase.CreatePostInput{Title: "Hello", Slug: "hello", Content: "too short"}},
		{"long title", usecase.CreatePostInput{Title: strings.Repeat("t", 250), Slug: "hello", Content: "long enough content"}},
		{"long slug", usecase.CreatePostInput{Title: "Hello", Slug: strings.Repeat("s", 250), Content: "long enough content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.posts.Create(context.Background(), &tt.input, ann.ID)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}

	_, err := fx.posts.GetBySlug(context.Background(), "hello")
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_Create_RequiresIdentity(t *testing.T) {
	fx := newBlogFixtures(t)

	_, err := fx.posts.Create(context.Background(), &usecase.CreatePostInput{
		Title: "Hello", Slug: "hello", Content: "long enough content",
	}, uuid.Nil)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestPostService_Lookups(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	post := fx.createPost(t, ann.ID, "lookup")

	byID, err := fx.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "lookup", byID.Slug)

	bySlug, err := fx.posts.GetBySlug(context.Background(), "LOOKUP")
	require.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.ID)

	_, err = fx.posts.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	_, err = fx.posts.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_Update(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	post := fx.createPost(t, ann.ID, "original", "go")

	updated, err := fx.posts.Update(context.Background(), post.ID, &usecase.UpdatePostInput{
		Title:     ptr("Renamed title"),
		Published: ptr(false),
	}, ann.ID)
	require.NoError(t, err)

	assert.Equal(t, "Renamed title", updated.Title)
	assert.False(t, updated.Published)
	assert.Equal(t, "original", updated.Slug)
	assert.Equal(t, post.Content, updated.Content)
	assert.Equal(t, []string{"go"}, updated.Tags)
	assert.Equal(t, ann.ID, updated.AuthorID)
	assert.Equal(t, []string{service.PostEventCreated, service.PostEventUpdated}, fx.publisher.types())
}

func TestPostService_Update_Slug(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	first := fx.createPost(t, ann.ID, "first")
	fx.createPost(t, ann.ID, "second")

	_, err := fx.posts.Update(context.Background(), first.ID, &usecase.UpdatePostInput{Slug: ptr("second")}, ann.ID)
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateSlug)

	same, err := fx.posts.Update(context.Background(), first.ID, &usecase.UpdatePostInput{Slug: ptr("FIRST")}, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", same.Slug)

	renamed, err := fx.posts.Update(context.Background(), first.ID, &usecase.UpdatePostInput{Slug: ptr("third")}, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "third", renamed.Slug)
}

func TestPostService_Update_ClearTags(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	post := fx.createPost(t, ann.ID, "tagged", "a", "b")

	updated, err := fx.posts.Update(context.Background(), post.ID, &usecase.UpdatePostInput{SetTags: true}, ann.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestPostService_Update_InvalidPatch(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	post := fx.createPost(t, ann.ID, "valid")

	patches := []*usecase.UpdatePostInput{
		{Content: ptr("short")},
		{Title: ptr(strings.Repeat("t", 201))},
		{Slug: ptr(strings.Repeat("s", 201))},
	}
	for _, patch := range patches {
		_, err := fx.posts.Update(context.Background(), post.ID, patch, ann.ID)
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	}

	stored, err := fx.posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Content, stored.Content)
}

func TestPostService_MissingBeforeForbidden(t *testing.T) {
	fx := newBlogFixtures(t)
	stranger := uuid.New()

	_, err := fx.posts.Update(context.Background(), uuid.New(), &usecase.UpdatePostInput{Title: ptr("Whatever")}, stranger)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	_, err = fx.posts.Remove(context.Background(), uuid.New(), stranger)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_Remove(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	bob := fx.register(t, "Bob", "bob@example.com")
	post := fx.createPost(t, ann.ID, "doomed")

	_, err := fx.posts.Remove(context.Background(), post.ID, bob.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	out, err := fx.posts.Remove(context.Background(), post.ID, ann.ID)
	require.NoError(t, err)
	assert.True(t, out.Deleted)

	_, err = fx.posts.GetByID(context.Background(), post.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
	assert.Equal(t, []string{service.PostEventCreated, service.PostEventDeleted}, fx.publisher.types())
}

func TestPostService_List_Filters(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	bob := fx.register(t, "Bob", "bob@example.com")
	fx.createPost(t, ann.ID, "ann-go", "go")
	fx.createPost(t, ann.ID, "ann-web", "web")
	fx.createPost(t, bob.ID, "bob-go", "go")

	page, err := fx.posts.List(context.Background(), entity.ListingParams{Tag: "go", Author: ann.ID.String()})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ann-go", page.Items[0].Slug)
	assert.Equal(t, int64(1), page.Total)

	page, err = fx.posts.List(context.Background(), entity.ListingParams{Author: "not-a-uuid", Page: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(3), page.Total)

	page, err = fx.posts.List(context.Background(), entity.ListingParams{Page: "9"})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestPostService_PublishFailureIsNotSurfaced(t *testing.T) {
	fx := newBlogFixtures(t)
	fx.publisher.err = errors.New("broker unavailable")
	ann := fx.register(t, "Ann", "ann@example.com")

	post := fx.createPost(t, ann.ID, "still-created")
	assert.Equal(t, "still-created", post.Slug)
	assert.Len(t, fx.publisher.types(), 1)
}

func TestPostService_ShareQR(t *testing.T) {
	fx := newBlogFixtures(t)
	ann := fx.register(t, "Ann", "ann@example.com")
	fx.createPost(t, ann.ID, "shared")

	out, err := fx.posts.ShareQR(context.Background(), "shared")
	require.NoError(t, err)
	assert.Equal(t, "https://blog.example.com/posts/slug/shared", out.URL)

	_, err = png.Decode(bytes.NewReader(out.PNG))
	require.NoError(t, err)

	_, err = fx.posts.ShareQR(context.Background(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_StoreFailure(t *testing.T) {
	repo := &mockPostRepository{}
	srv := NewPostService(PostServiceParams{
		PostRepo:   repo,
		Authorizer: service.NewOwnershipAuthorizer(),
		Planner:    service.NewListingQueryPlanner(0, 0),
		Logger:     newDiscardLogger(),
	})
	ctx := context.Background()
	storeErr := domainerrors.NewDatabaseExecuteError(errStoreDown, "query posts")

	repo.On("Query", ctx, mock.AnythingOfType("repository.PostQuery")).Return(nil, int64(0), storeErr).Once()
	_, err := srv.List(ctx, entity.ListingParams{})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.ErrorIs(t, err, errStoreDown)

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, storeErr).Once()
	_, err = srv.GetByID(ctx, id)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, domainerrors.ErrPostNotFound)

	repo.AssertExpectations(t)
}

func TestPostService_StoreConstraintWinsRace(t *testing.T) {
	repo := &mockPostRepository{}
	srv := NewPostService(PostServiceParams{
		PostRepo:   repo,
		Authorizer: service.NewOwnershipAuthorizer(),
		Planner:    service.NewListingQueryPlanner(0, 0),
		Logger:     newDiscardLogger(),
	})
	ctx := context.Background()

	repo.On("FindBySlug", ctx, "racy").Return(nil, repository.ErrPostNotFound).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Post")).
		Return(domainerrors.ErrDuplicateSlug.WrapMessage("slug already exists")).Once()

	_, err := srv.Create(ctx, &usecase.CreatePostInput{
		Title: "Racy", Slug: "racy", Content: "long enough content",
	}, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateSlug)
	repo.AssertExpectations(t)
}

func TestPostService_List_PassesBoundedQuery(t *testing.T) {
	repo := &mockPostRepository{}
	srv := NewPostService(PostServiceParams{
		PostRepo:   repo,
		Authorizer: service.NewOwnershipAuthorizer(),
		Planner:    service.NewListingQueryPlanner(0, 0),
		Logger:     newDiscardLogger(),
	})
	ctx := context.Background()

	repo.On("Query", ctx, mock.MatchedBy(func(q repository.PostQuery) bool {
		return q.Limit == 50 && q.Skip == 100 && q.Sort == entity.SortRankDesc && q.Filter.Search == "golang"
	})).Return([]*entity.Post{}, int64(0), nil).Once()

	page, err := srv.List(ctx, entity.ListingParams{Page: "3", Limit: "5000", Query: "  golang "})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	repo.AssertExpectations(t)
}
