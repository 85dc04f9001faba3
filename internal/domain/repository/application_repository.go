package repository

import (
	"context"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/errors"

	"github.com/google/uuid"
)

// ErrApplicationNotFound is returned when an application id is not registered.
var ErrApplicationNotFound = errors.New("application not found")

// ApplicationRepository defines read access to registered applications.
// Application CRUD lives outside the authentication core; this core only reads.
type ApplicationRepository interface {
	// FindByID retrieves a single application by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)

	// FindByIDs retrieves the applications whose ids appear in the given set.
	// Batch lookup contract for administrative tooling outside this core.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Application, error)
}
