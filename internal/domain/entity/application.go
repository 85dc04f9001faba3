package entity

import (
	"time"

	"github.com/google/uuid"
)

// Application represents one of the registered applications users
// authenticate against. Read-only to the authentication core.
type Application struct {
	ID        uuid.UUID // The unique identifier for the application.
	Name      string    // Human-readable display name.
	CreatedAt time.Time // Timestamp of when the application was registered.
}
