package handler

import (
	"log/slog"
	"net/http"

	"blog/internal/delivery/api/middleware"
	"blog/internal/delivery/api/response"
	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PostHandlerParams holds dependencies for PostHandler, injected by Fx.
type PostHandlerParams struct {
	fx.In

	PostUC usecase.PostUsecase
	Logger *slog.Logger
}

// PostHandler holds dependencies for post handlers
type PostHandler struct {
	postUC usecase.PostUsecase
	logger *slog.Logger
}

// NewPostHandler is the constructor for PostHandler
func NewPostHandler(params PostHandlerParams) *PostHandler {
	return &PostHandler{
		postUC: params.PostUC,
		logger: params.Logger,
	}
}

// CreatePostRequest represents the request body for creating a post.
// The owner is always the authenticated caller.
type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required"`
	Slug      string   `json:"slug" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

// UpdatePostRequest represents a partial update; absent fields are kept.
type UpdatePostRequest struct {
	Title     *string   `json:"title"`
	Slug      *string   `json:"slug"`
	Content   *string   `json:"content"`
	Tags      *[]string `json:"tags"`
	Published *bool     `json:"published"`
}

// Create handles post creation
func (h *PostHandler) Create(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrInvalidToken
	}

	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postUC.Create(c.Request().Context(), &usecase.CreatePostInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Tags:      req.Tags,
		Published: req.Published,
	}, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, post)
}

// List handles the public post listing
func (h *PostHandler) List(c echo.Context) error {
	page, err := h.postUC.List(c.Request().Context(), entity.ListingParams{
		Page:      c.QueryParam("page"),
		Limit:     c.QueryParam("limit"),
		Tag:       c.QueryParam("tag"),
		Author:    c.QueryParam("author"),
		Published: c.QueryParam("published"),
		Query:     c.QueryParam("q"),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, page)
}

// GetByID handles retrieving a post by id
func (h *PostHandler) GetByID(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := h.postUC.GetByID(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, post)
}

// GetBySlug handles retrieving a post by slug
func (h *PostHandler) GetBySlug(c echo.Context) error {
	post, err := h.postUC.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, post)
}

// Update handles a partial post update by its owner
func (h *PostHandler) Update(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrInvalidToken
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := &usecase.UpdatePostInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Content:   req.Content,
		Published: req.Published,
	}
	if req.Tags != nil {
		input.Tags = *req.Tags
		input.SetTags = true
	}

	post, err := h.postUC.Update(c.Request().Context(), id, input, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, post)
}

// Remove handles deleting a post by its owner
func (h *PostHandler) Remove(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domainerrors.ErrInvalidToken
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	out, err := h.postUC.Remove(c.Request().Context(), id, userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, out)
}

// ShareQR renders the PNG share code of a post
func (h *PostHandler) ShareQR(c echo.Context) error {
	out, err := h.postUC.ShareQR(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	c.Response().Header().Set("X-Post-Url", out.URL)

	return c.Blob(http.StatusOK, "image/png", out.PNG)
}

func parsePostID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("id must be a valid UUID")
	}

	return id, nil
}
