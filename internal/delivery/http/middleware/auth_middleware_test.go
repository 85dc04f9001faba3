package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/service"
	mockSvc "gatekeeper/internal/mocks/service"
	"gatekeeper/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardTestContext(authorization string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec)
}

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, *mockSvc.MockTokenService) {
	tokenSvc := mockSvc.NewMockTokenService(t)
	guard := impl.NewGuardService(impl.GuardServiceParams{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return NewAuthMiddleware(tokenSvc, guard), tokenSvc
}

func nextRecorder(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true

		return nil
	}
}

func TestAuthMiddleware_Guard_PublicRouteWithoutToken(t *testing.T) {
	m, _ := newTestAuthMiddleware(t)
	c := newGuardTestContext("")

	var called bool
	err := m.Guard(entity.PublicRoute())(nextRecorder(&called))(c)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, GetClaims(c))
}

func TestAuthMiddleware_Guard_ProtectedRouteWithoutToken(t *testing.T) {
	m, _ := newTestAuthMiddleware(t)
	c := newGuardTestContext("")

	var called bool
	err := m.Guard(entity.AuthenticatedRoute())(nextRecorder(&called))(c)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.False(t, called)
}

func TestAuthMiddleware_Guard_ProtectedRouteWithValidToken(t *testing.T) {
	m, tokenSvc := newTestAuthMiddleware(t)
	c := newGuardTestContext("Bearer valid-token")

	claims := &service.Claims{UserID: uuid.New(), Email: "user@example.com"}
	tokenSvc.EXPECT().Verify("valid-token").Return(claims, nil)

	var called bool
	err := m.Guard(entity.AuthenticatedRoute())(nextRecorder(&called))(c)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, claims, GetClaims(c))
}

func TestAuthMiddleware_Guard_BadTokenBehavesLikeMissingToken(t *testing.T) {
	m, tokenSvc := newTestAuthMiddleware(t)
	c := newGuardTestContext("Bearer tampered-token")

	tokenSvc.EXPECT().Verify("tampered-token").Return(nil, service.ErrTokenInvalid)

	var called bool
	err := m.Guard(entity.AuthenticatedRoute())(nextRecorder(&called))(c)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.False(t, called)
	assert.Nil(t, GetClaims(c))
}

func TestAuthMiddleware_Guard_MalformedAuthorizationHeader(t *testing.T) {
	m, _ := newTestAuthMiddleware(t)
	c := newGuardTestContext("Token not-a-bearer-scheme")

	var called bool
	err := m.Guard(entity.AuthenticatedRoute())(nextRecorder(&called))(c)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	assert.False(t, called)
}

func TestAuthMiddleware_Guard_RestrictedRouteWithRole(t *testing.T) {
	m, tokenSvc := newTestAuthMiddleware(t)
	c := newGuardTestContext("Bearer admin-token")

	claims := &service.Claims{UserID: uuid.New(), Roles: []string{"Admin"}}
	tokenSvc.EXPECT().Verify("admin-token").Return(claims, nil)

	var called bool
	err := m.Guard(entity.RestrictedRoute("Admin"))(nextRecorder(&called))(c)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestAuthMiddleware_Guard_RestrictedRouteMissingRole(t *testing.T) {
	m, tokenSvc := newTestAuthMiddleware(t)
	c := newGuardTestContext("Bearer viewer-token")

	claims := &service.Claims{UserID: uuid.New(), Roles: []string{"Viewer"}}
	tokenSvc.EXPECT().Verify("viewer-token").Return(claims, nil)

	var called bool
	err := m.Guard(entity.RestrictedRoute("Admin"))(nextRecorder(&called))(c)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.False(t, called)
}
