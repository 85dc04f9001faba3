package impl

import (
	"io"
	"log/slog"
	"testing"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestGuardService() usecase.GuardUsecase {
	return NewGuardService(GuardServiceParams{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestGuardService_Authorize_PublicRouteWithoutClaims(t *testing.T) {
	guard := createTestGuardService()

	err := guard.Authorize(entity.PublicRoute(), nil)

	require.NoError(t, err)
}

func TestGuardService_Authorize_PublicRouteIgnoresRoles(t *testing.T) {
	guard := createTestGuardService()

	claims := &service.Claims{UserID: uuid.New(), Roles: nil}
	err := guard.Authorize(entity.PublicRoute(), claims)

	require.NoError(t, err)
}

func TestGuardService_Authorize_AuthenticatedRouteWithoutClaims(t *testing.T) {
	guard := createTestGuardService()

	err := guard.Authorize(entity.AuthenticatedRoute(), nil)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestGuardService_Authorize_AuthenticatedRouteWithClaims(t *testing.T) {
	guard := createTestGuardService()

	claims := &service.Claims{UserID: uuid.New()}
	err := guard.Authorize(entity.AuthenticatedRoute(), claims)

	require.NoError(t, err)
}

func TestGuardService_Authorize_RestrictedRouteWithoutClaims(t *testing.T) {
	guard := createTestGuardService()

	err := guard.Authorize(entity.RestrictedRoute("Admin"), nil)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestGuardService_Authorize_RestrictedRouteWithMatchingRole(t *testing.T) {
	guard := createTestGuardService()

	claims := &service.Claims{UserID: uuid.New(), Roles: []string{"Viewer", "Admin"}}
	err := guard.Authorize(entity.RestrictedRoute("Admin"), claims)

	require.NoError(t, err)
}

func TestGuardService_Authorize_RestrictedRouteAnyRoleSuffices(t *testing.T) {
	guard := createTestGuardService()

	claims := &service.Claims{UserID: uuid.New(), Roles: []string{"Support"}}
	err := guard.Authorize(entity.RestrictedRoute("Admin", "Support"), claims)

	require.NoError(t, err)
}

func TestGuardService_Authorize_RestrictedRouteMissingRole(t *testing.T) {
	guard := createTestGuardService()

	claims := &service.Claims{UserID: uuid.New(), Roles: []string{"Viewer"}}
	err := guard.Authorize(entity.RestrictedRoute("Admin"), claims)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestGuardService_Authorize_RestrictedRouteEmptyClaimRoles(t *testing.T) {
	guard := createTestGuardService()

	claims := &service.Claims{UserID: uuid.New()}
	err := guard.Authorize(entity.RestrictedRoute("Admin"), claims)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
