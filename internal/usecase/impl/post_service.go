package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	deliverycontext "blog/internal/delivery/context"
	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/repository"
	"blog/internal/domain/service"
	"blog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	minTitleLength   = 3
	minSlugLength    = 3
	minContentLength = 10

	// Upper bounds match the posts.title and posts.slug columns.
	maxTitleLength = 200
	maxSlugLength  = 200
)

// postService implements the PostUsecase interface.
type postService struct {
	postRepo   repository.PostRepository
	authorizer service.OwnershipAuthorizer
	planner    service.ListingQueryPlanner
	publisher  service.EventPublisher
	qrcodes    service.QRCodeService
	logger     *slog.Logger
}

// PostServiceParams holds dependencies for PostService, injected by Fx.
type PostServiceParams struct {
	fx.In

	PostRepo   repository.PostRepository
	Authorizer service.OwnershipAuthorizer
	Planner    service.ListingQueryPlanner
	Publisher  service.EventPublisher `optional:"true"`
	QRCode     service.QRCodeService  `optional:"true"`
	Logger     *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		postRepo:   params.PostRepo,
		authorizer: params.Authorizer,
		planner:    params.Planner,
		publisher:  params.Publisher,
		qrcodes:    params.QRCode,
		logger:     params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create stores a new post owned by the requester.
func (srv *postService) Create(ctx context.Context, input *usecase.CreatePostInput, requesterID uuid.UUID) (*entity.Post, error) {
	if requesterID == uuid.Nil {
		return nil, domainerrors.ErrInvalidToken
	}

	post := &entity.Post{
		Title:     strings.TrimSpace(input.Title),
		Slug:      entity.NormalizeSlug(input.Slug),
		Content:   input.Content,
		Tags:      entity.NormalizeTags(input.Tags),
		Published: input.Published,
		AuthorID:  requesterID,
	}
	if err := validatePost(post); err != nil {
		return nil, err
	}

	if err := srv.ensureSlugAvailable(ctx, post.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	if err := srv.postRepo.Create(ctx, post); err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}

	created, err := srv.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, translatePostLookup(err, "failed to load created post")
	}

	srv.log(ctx).Info("Post created",
		slog.String("post_id", created.ID.String()),
		slog.String("slug", created.Slug),
	)
	srv.publish(ctx, service.PostEventCreated, created)

	return created, nil
}

// List plans the raw parameters and returns one page of posts.
func (srv *postService) List(ctx context.Context, params entity.ListingParams) (*entity.PostPage, error) {
	plan := srv.planner.Plan(params)

	items, total, err := srv.postRepo.Query(ctx, repository.NewPostQuery(plan))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query posts")
	}
	if items == nil {
		items = []*entity.Post{}
	}

	return &entity.PostPage{
		Page:  plan.Page,
		Limit: plan.Limit,
		Total: total,
		Items: items,
	}, nil
}

// GetByID returns a post or ErrPostNotFound.
func (srv *postService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	post, err := srv.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translatePostLookup(err, "failed to find post by id")
	}

	return post, nil
}

// GetBySlug returns a post or ErrPostNotFound.
func (srv *postService) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	slug = entity.NormalizeSlug(slug)
	if slug == "" {
		return nil, domainerrors.ErrPostNotFound
	}

	post, err := srv.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, translatePostLookup(err, "failed to find post by slug")
	}

	return post, nil
}

// Update applies a partial update. Order: existence, ownership, then validation and write.
func (srv *postService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdatePostInput, requesterID uuid.UUID) (*entity.Post, error) {
	existing, err := srv.loadOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	applyPostPatch(&updated, input)
	if err := validatePost(&updated); err != nil {
		return nil, err
	}

	if updated.Slug != existing.Slug {
		if err := srv.ensureSlugAvailable(ctx, updated.Slug, existing.ID); err != nil {
			return nil, err
		}
	}

	if err := srv.postRepo.Update(ctx, &updated); err != nil {
		return nil, translatePostLookup(err, "failed to update post")
	}

	result, err := srv.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translatePostLookup(err, "failed to load updated post")
	}

	srv.log(ctx).Info("Post updated", slog.String("post_id", id.String()))
	srv.publish(ctx, service.PostEventUpdated, result)

	return result, nil
}

// Remove deletes a post owned by the requester.
func (srv *postService) Remove(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*usecase.RemovePostOutput, error) {
	existing, err := srv.loadOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if err := srv.postRepo.Delete(ctx, id); err != nil {
		return nil, translatePostLookup(err, "failed to delete post")
	}

	srv.log(ctx).Info("Post deleted", slog.String("post_id", id.String()))
	srv.publish(ctx, service.PostEventDeleted, existing)

	return &usecase.RemovePostOutput{Deleted: true}, nil
}

// ShareQR renders the share code of an existing post.
func (srv *postService) ShareQR(ctx context.Context, slug string) (*usecase.ShareQROutput, error) {
	if srv.qrcodes == nil {
		return nil, domainerrors.ErrConfiguration.WrapMessage("qr code service is not configured")
	}

	post, err := srv.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcodes.GeneratePostQR(post.Slug)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate share code")
	}

	return &usecase.ShareQROutput{
		URL: srv.qrcodes.PostURL(post.Slug),
		PNG: png,
	}, nil
}

// loadOwned resolves the post and checks that the requester owns it.
// A missing post is reported before any ownership decision.
func (srv *postService) loadOwned(ctx context.Context, id, requesterID uuid.UUID) (*entity.Post, error) {
	existing, err := srv.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translatePostLookup(err, "failed to find post by id")
	}

	if decision := srv.authorizer.Authorize(existing.AuthorID, requesterID); !decision.Allowed() {
		srv.log(ctx).Warn("Post mutation denied",
			slog.String("post_id", id.String()),
			slog.String("requester_id", requesterID.String()),
		)

		return nil, domainerrors.ErrForbidden
	}

	return existing, nil
}

// ensureSlugAvailable fails with ErrDuplicateSlug when another post holds the slug.
// The store's unique constraint still settles concurrent writers.
func (srv *postService) ensureSlugAvailable(ctx context.Context, slug string, selfID uuid.UUID) error {
	holder, err := srv.postRepo.FindBySlug(ctx, slug)
	switch {
	case errors.Is(err, repository.ErrPostNotFound):
		return nil
	case err != nil:
		return errors.Wrap(err, "failed to check slug uniqueness")
	case holder.ID == selfID:
		return nil
	default:
		return domainerrors.ErrDuplicateSlug
	}
}

// publish emits a lifecycle event. Failures are logged and never returned.
func (srv *postService) publish(ctx context.Context, eventType string, post *entity.Post) {
	if srv.publisher == nil {
		return
	}

	event := &service.PostEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		PostID:     post.ID.String(),
		Slug:       post.Slug,
		AuthorID:   post.AuthorID.String(),
		Published:  post.Published,
		OccurredAt: time.Now().UTC(),
	}
	if err := srv.publisher.PublishPostEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish post event",
			slog.String("type", eventType),
			slog.String("post_id", event.PostID),
			slog.Any("error", err),
		)
	}
}

func applyPostPatch(post *entity.Post, input *usecase.UpdatePostInput) {
	if input == nil {
		return
	}
	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		post.Slug = entity.NormalizeSlug(*input.Slug)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.SetTags {
		post.Tags = entity.NormalizeTags(input.Tags)
	}
	if input.Published != nil {
		post.Published = *input.Published
	}
}

func validatePost(post *entity.Post) error {
	var problems []string
	if utf8.RuneCountInString(post.Title) < minTitleLength {
		problems = append(problems, "title must be at least 3 characters long")
	}
	if utf8.RuneCountInString(post.Title) > maxTitleLength {
		problems = append(problems, "title must be at most 200 characters long")
	}
	if len(post.Slug) < minSlugLength {
		problems = append(problems, "slug must be at least 3 characters of [a-z0-9-]")
	}
	if len(post.Slug) > maxSlugLength {
		problems = append(problems, "slug must be at most 200 characters long")
	}
	if utf8.RuneCountInString(strings.TrimSpace(post.Content)) < minContentLength {
		problems = append(problems, "content must be at least 10 characters long")
	}
	if len(problems) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, "; "))
	}

	return nil
}

func translatePostLookup(err error, message string) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return domainerrors.ErrPostNotFound
	}

	return errors.Wrap(err, message)
}
