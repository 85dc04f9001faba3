package usecase

import (
	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/service"
)

// GuardUsecase decides whether verified claims may reach a route, given the
// route's declared access metadata.
type GuardUsecase interface {
	// Authorize returns nil when access is allowed. It returns
	// ErrInvalidToken when authentication is required but missing, and
	// ErrForbidden when the identity lacks every required role.
	Authorize(meta entity.RouteMeta, claims *service.Claims) error
}
