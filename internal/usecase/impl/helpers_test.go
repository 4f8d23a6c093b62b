package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"blog/config"
	"blog/internal/domain/entity"
	"blog/internal/domain/repository"
	"blog/internal/domain/service"
	"blog/internal/infra/auth"
	"blog/internal/infra/persistence/memory"
	"blog/internal/infra/qrcode"
	"blog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingPublisher keeps every published event; err, when set, is returned
// from each publish call.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.PostEvent
	err    error
}

func (p *recordingPublisher) PublishPostEvent(_ context.Context, event *service.PostEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}

	return out
}

// blogFixtures wires the real services against the in-memory store.
type blogFixtures struct {
	store     *memory.Store
	auth      usecase.AuthUsecase
	posts     usecase.PostUsecase
	tokens    service.TokenService
	publisher *recordingPublisher
}

func newBlogFixtures(t *testing.T) blogFixtures {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-session-secret"

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	store := memory.NewStore()
	logger := newDiscardLogger()

	authService, err := NewAuthService(AuthServiceParams{
		UserRepo:     store.Users(),
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost, nil),
		TokenService: tokens,
		Logger:       logger,
	})
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	postService := NewPostService(PostServiceParams{
		PostRepo:   store.Posts(),
		Authorizer: service.NewOwnershipAuthorizer(),
		Planner:    service.NewListingQueryPlanner(0, 0),
		Publisher:  publisher,
		QRCode:     qrcode.NewQRCodeService("https://blog.example.com", 128, "M"),
		Logger:     logger,
	})

	return blogFixtures{
		store:     store,
		auth:      authService,
		posts:     postService,
		tokens:    tokens,
		publisher: publisher,
	}
}

func (f blogFixtures) register(t *testing.T, name, email string) *entity.User {
	t.Helper()

	user, err := f.auth.Register(context.Background(), &usecase.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "Password123!",
	})
	require.NoError(t, err)

	return user
}

func (f blogFixtures) createPost(t *testing.T, owner uuid.UUID, slug string, tags ...string) *entity.Post {
	t.Helper()

	post, err := f.posts.Create(context.Background(), &usecase.CreatePostInput{
		Title:     "Title of " + slug,
		Slug:      slug,
		Content:   "Long enough content for " + slug,
		Tags:      tags,
		Published: true,
	}, owner)
	require.NoError(t, err)

	return post
}

func ptr[T any](v T) *T {
	return &v
}

// mockPostRepository is a testify mock of repository.PostRepository.
type mockPostRepository struct {
	mock.Mock
}

var _ repository.PostRepository = (*mockPostRepository)(nil)

func (m *mockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*entity.Post)

	return post, args.Error(1)
}

func (m *mockPostRepository) FindBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	args := m.Called(ctx, slug)
	post, _ := args.Get(0).(*entity.Post)

	return post, args.Error(1)
}

func (m *mockPostRepository) Create(ctx context.Context, post *entity.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepository) Update(ctx context.Context, post *entity.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPostRepository) Query(ctx context.Context, query repository.PostQuery) ([]*entity.Post, int64, error) {
	args := m.Called(ctx, query)
	posts, _ := args.Get(0).([]*entity.Post)

	return posts, args.Get(1).(int64), args.Error(2)
}

// mockPasswordHasher is a testify mock of service.PasswordHasher.
type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *mockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

var errStoreDown = errors.New("connection refused")
