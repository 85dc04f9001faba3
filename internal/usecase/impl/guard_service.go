package impl

import (
	"log/slog"
	"slices"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// guardService implements the GuardUsecase interface.
type guardService struct {
	logger *slog.Logger
}

// GuardServiceParams holds dependencies for GuardService, injected by Fx.
type GuardServiceParams struct {
	fx.In

	Logger *slog.Logger
}

// NewGuardService is the constructor for guardService.
func NewGuardService(params GuardServiceParams) usecase.GuardUsecase {
	return &guardService{logger: params.Logger}
}

// Authorize applies the route's access metadata to the verified claims.
// Required roles use OR semantics: holding any one of them is enough.
func (srv *guardService) Authorize(meta entity.RouteMeta, claims *service.Claims) error {
	if meta.Public {
		return nil
	}

	if claims == nil {
		return errors.Wrap(domainerrors.ErrInvalidToken, "authentication required")
	}

	if len(meta.Roles) == 0 {
		return nil
	}

	for _, required := range meta.Roles {
		if slices.Contains(claims.Roles, required) {
			return nil
		}
	}

	srv.logger.Warn("Access denied: missing required role",
		slog.Any("userID", claims.UserID), slog.Any("required", meta.Roles))

	return errors.Wrap(domainerrors.ErrForbidden, "missing required role")
}
