package repository

import (
	"context"
	"time"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/errors"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when no session matches the lookup.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists the single active token pair per
// (user, application) combination.
type SessionRepository interface {
	// Upsert creates the session for the (user, application) pair or replaces
	// the existing one's tokens and timestamp. The find-or-create step must be
	// a single conditional write, atomic with respect to concurrent writers.
	// This is the only write path that creates or mutates a session.
	Upsert(ctx context.Context, session *entity.Session) (*entity.Session, error)

	// FindByRefreshToken retrieves the session whose stored refresh token,
	// user and application all match. Superseded refresh tokens no longer
	// match because Upsert overwrites in place.
	FindByRefreshToken(ctx context.Context, refreshToken string, userID, applicationID uuid.UUID) (*entity.Session, error)

	// CountCreatedSince returns the number of sessions created at or after
	// the given timestamp. Read-only, used for the recent-login metric.
	CountCreatedSince(ctx context.Context, from time.Time) (int64, error)
}
