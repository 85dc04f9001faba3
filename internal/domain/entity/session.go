package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the single active credential pair for one (user, application)
// combination. A new login or refresh replaces the stored tokens in place;
// at most one Session exists per pair at any time.
type Session struct {
	ID            uuid.UUID // The unique ID for this session record.
	UserID        uuid.UUID // The user this session belongs to.
	ApplicationID uuid.UUID // The application this session was created against.
	TokenType     string    // Token scheme, always "Bearer".
	AccessToken   string    // The currently valid signed access token, opaque to storage.
	RefreshToken  string    // The currently valid signed refresh token, opaque to storage.
	ExpiresIn     int       // Access token lifetime in seconds at issue time.
	CreatedAt     time.Time // When the session was last created or replaced.
}

// TokenTypeBearer is the only token scheme issued by the service.
const TokenTypeBearer = "Bearer"
