// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"blog/internal/delivery/api/middleware"
	"blog/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	postHandler    *handler.PostHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		postHandler:    params.PostHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	// Post routes: reads are public, mutations require a session
	postsGroup := e.Group("/posts")
	{
		postsGroup.GET("", r.postHandler.List)
		postsGroup.GET("/slug/:slug", r.postHandler.GetBySlug)
		postsGroup.GET("/slug/:slug/qrcode", r.postHandler.ShareQR)
		postsGroup.GET("/:id", r.postHandler.GetByID)

		postsGroup.POST("", r.postHandler.Create, r.authMiddleware.Authenticate)
		postsGroup.PUT("/:id", r.postHandler.Update, r.authMiddleware.Authenticate)
		postsGroup.DELETE("/:id", r.postHandler.Remove, r.authMiddleware.Authenticate)
	}
}
