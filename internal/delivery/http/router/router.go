// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"gatekeeper/internal/delivery/http/middleware"
	"gatekeeper/internal/delivery/http/router/handler"
	"gatekeeper/internal/domain/constants"
	"gatekeeper/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Every route declares its access metadata; the guard middleware enforces it.
func (r *router) RegisterRoutes(e *echo.Echo) {
	public := r.authMiddleware.Guard(entity.PublicRoute())

	// Health check endpoint
	e.GET("/health", handler.HealthCheck, public)

	authGroup := e.Group("/api/v1/auth")
	{
		authGroup.POST("", r.authHandler.Login, public)
		authGroup.POST("/register", r.authHandler.Register, public)
		authGroup.PUT("/resets", r.authHandler.RequestPasswordReset, public)
		authGroup.GET("/resets/:token", r.authHandler.VerifyResetToken, public)
		authGroup.PUT("/resets/:token", r.authHandler.UpdatePassword, public)
		authGroup.GET("/amounts", r.authHandler.CountLogins,
			r.authMiddleware.Guard(entity.RestrictedRoute(constants.RoleAdmin)))
		authGroup.PUT("/:token", r.authHandler.Refresh, public)
	}
}
