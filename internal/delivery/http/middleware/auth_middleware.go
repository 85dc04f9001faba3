package middleware

import (
	"strings"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// claimsKey is the echo.Context key holding verified token claims.
const claimsKey = "claims"

// AuthMiddleware verifies bearer tokens and enforces route access metadata.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	guard    usecase.GuardUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, guard usecase.GuardUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, guard: guard}
}

// Guard returns a middleware that applies the given access metadata to the
// request. A bearer token is verified when present; claims reach the guard
// only after a successful verification, so a bad token on a protected route
// is rejected exactly like a missing one.
func (m *AuthMiddleware) Guard(meta entity.RouteMeta) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := m.verifyBearer(c)
			if claims != nil {
				c.Set(claimsKey, claims)
			}

			if err := m.guard.Authorize(meta, claims); err != nil {
				return errors.WithStack(err)
			}

			return next(c)
		}
	}
}

// verifyBearer extracts and verifies the Authorization bearer token.
// It returns nil for a missing, malformed or unverifiable token.
func (m *AuthMiddleware) verifyBearer(c echo.Context) *service.Claims {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil
	}

	claims, err := m.tokenSvc.Verify(tokenString)
	if err != nil {
		return nil
	}

	return claims
}

// GetClaims returns the verified claims stashed on the context, or nil when
// the request carried no valid token.
func GetClaims(c echo.Context) *service.Claims {
	claims, _ := c.Get(claimsKey).(*service.Claims)

	return claims
}
