// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"
)

// Fallback TTLs when the auth config section is absent.
const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultResetTTL   = time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// One HS256 key signs all three token classes; only the TTLs differ.
type jwtService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

// NewJWTService is the constructor for jwtService.
// The signing key is process-wide configuration, loaded once and never rotated mid-process.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.JWT == "" {
		return nil, errors.New("jwt signing secret must be provided")
	}

	svc := &jwtService{
		secret:     []byte(cfg.SecretKey.JWT),
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		resetTTL:   defaultResetTTL,
	}
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			svc.accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			svc.refreshTTL = cfg.Auth.RefreshTokenTTL
		}
		if cfg.Auth.ResetTokenTTL > 0 {
			svc.resetTTL = cfg.Auth.ResetTokenTTL
		}
	}

	return svc, nil
}

// IssueTokenPair creates a new access token and refresh token for a given payload.
func (s *jwtService) IssueTokenPair(payload service.TokenPayload) (accessToken string, refreshToken string, err error) {
	accessToken, err = s.sign(payload, s.accessTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = s.sign(payload, s.refreshTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// IssueResetToken creates a short-lived token authorizing a one-time password change.
func (s *jwtService) IssueResetToken(payload service.TokenPayload) (string, error) {
	return s.sign(payload, s.resetTTL)
}

// Verify checks the validity of a token string and decodes its claims.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}

		return nil, service.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, service.ErrTokenInvalid
	}

	return claims, nil
}

// AccessTokenTTL returns the configured lifetime for access tokens.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// sign is a private helper to create a JWT with the payload's claims and an
// expiry derived from now + ttl.
func (s *jwtService) sign(payload service.TokenPayload, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &service.Claims{
		Email:         payload.Email,
		Roles:         payload.Roles,
		UserID:        payload.UserID,
		ApplicationID: payload.ApplicationID,
		Refresh:       payload.Refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}
