package service

import (
	"time"

	"gatekeeper/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures collapse into these two values; callers must treat
// both as "unauthenticated" and never tell the difference apart in responses.
var (
	// ErrTokenInvalid is returned for a malformed or badly signed token.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired is returned for an otherwise valid token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the signed payload shared by access, refresh and reset tokens.
// The three classes are distinguished by caller context and TTL, not by a
// type tag; only rotated refresh tokens carry the Refresh marker.
type Claims struct {
	Email         string    `json:"email"`
	Roles         []string  `json:"roles"`
	UserID        uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"applicationId"`
	Refresh       bool      `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// TokenPayload is the input for minting tokens: the identity and application
// references that end up inside the signed claims.
type TokenPayload struct {
	Email         string
	Roles         []string
	UserID        uuid.UUID
	ApplicationID uuid.UUID
	Refresh       bool
}

// TokenService signs and verifies the three token classes over one
// process-wide signing key loaded at startup.
type TokenService interface {
	// IssueTokenPair signs an access token and a refresh token embedding the
	// payload, each with its configured TTL.
	IssueTokenPair(payload TokenPayload) (accessToken string, refreshToken string, err error)

	// IssueResetToken signs a short-lived token that authorizes a one-time
	// password change. Structurally identical to an access token; its meaning
	// is entirely contextual.
	IssueResetToken(payload TokenPayload) (string, error)

	// Verify checks signature and expiry, returning the decoded claims or
	// ErrTokenInvalid / ErrTokenExpired. Claims are only trusted after a
	// successful Verify.
	Verify(tokenString string) (*Claims, error)

	// AccessTokenTTL returns the configured access token lifetime, reported
	// to callers as the bundle's expiresIn.
	AccessTokenTTL() time.Duration
}
