package middleware

import (
	"log/slog"
	"strings"

	"blog/config"
	deliverycontext "blog/internal/delivery/context"
	"blog/internal/domain/entity"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the session token of a request into an identity.
type AuthMiddleware struct {
	auth       usecase.AuthUsecase
	cookieName string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(auth usecase.AuthUsecase, cfg *config.Config) *AuthMiddleware {
	cookieName := "access_token"
	if cfg != nil && cfg.Session != nil && cfg.Session.CookieName != "" {
		cookieName = cfg.Session.CookieName
	}

	return &AuthMiddleware{auth: auth, cookieName: cookieName}
}

// Authenticate rejects the request with ErrInvalidToken unless it carries a
// valid session token. The cookie is tried first; a stale cookie falls through
// to the Bearer header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var identity *entity.Identity
		for _, token := range m.tokensFromRequest(c) {
			if resolved, err := m.auth.CurrentIdentity(ctx, token); err == nil {
				identity = resolved

				break
			}
		}
		if identity == nil {
			return domainerrors.ErrInvalidToken
		}

		deliverycontext.SetIdentity(c, identity)
		ctx = deliverycontext.WithIdentity(ctx, identity)
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("user_id", identity.UserID.String())))
		}
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// tokensFromRequest lists the candidate tokens in precedence order.
func (m *AuthMiddleware) tokensFromRequest(c echo.Context) []string {
	var tokens []string
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, bearerPrefix); ok {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

// GetUserID returns the authenticated user's id.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	identity, ok := deliverycontext.GetIdentity(c)
	if !ok {
		return uuid.Nil, false
	}

	return identity.UserID, true
}
