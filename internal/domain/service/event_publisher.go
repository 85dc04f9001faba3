package service

import (
	"context"

	"github.com/google/uuid"
)

// LoginEvent is published after every successful login.
type LoginEvent struct {
	RequestID     string    `json:"request_id,omitempty"` // For distributed tracing
	UserID        uuid.UUID `json:"user_id"`
	ApplicationID uuid.UUID `json:"application_id"`
}

// EventPublisher defines the interface for publishing events to a message queue.
// Publishing is fire-and-forget from the caller's point of view: a publish
// failure must never fail the login that triggered it.
type EventPublisher interface {
	// PublishLoginEvent publishes a user_logged_in event for async consumers.
	PublishLoginEvent(ctx context.Context, event *LoginEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
