// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in against an application.
type LoginInput struct {
	Email         string
	Password      string
	ApplicationID uuid.UUID
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string
}

// RequestPasswordResetInput defines the data required to start a password reset.
type RequestPasswordResetInput struct {
	Email         string
	ApplicationID uuid.UUID
}

// UpdatePasswordInput defines the data required to redeem a reset token.
type UpdatePasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
}

// --- Output DTOs ---

// TokenBundle is the credential set returned by login and refresh.
type TokenBundle struct {
	Type         string `json:"type"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// ResetTokenOutput returns the identity a valid reset token was issued for.
type ResetTokenOutput struct {
	Email string `json:"email"`
}

// RegisterOutput returns the newly created user's id.
type RegisterOutput struct {
	UserID uuid.UUID `json:"id"`
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Login verifies the credentials and application membership, replaces the
	// active session for the (user, application) pair and returns fresh tokens.
	Login(ctx context.Context, input *LoginInput) (*TokenBundle, error)

	// Refresh rotates a valid, currently stored refresh token into a new pair.
	Refresh(ctx context.Context, input *RefreshInput) (*TokenBundle, error)

	// RequestPasswordReset issues and stores a reset token for the given email.
	// It succeeds identically whether or not the email is registered.
	RequestPasswordReset(ctx context.Context, input *RequestPasswordResetInput) error

	// VerifyResetToken checks a reset token and returns the email it was issued for.
	VerifyResetToken(ctx context.Context, token string) (*ResetTokenOutput, error)

	// UpdatePasswordFromResetToken redeems a reset token and sets a new password.
	UpdatePasswordFromResetToken(ctx context.Context, input *UpdatePasswordInput) error

	// Register creates a new user account with access revoked until granted.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// CountLoginsSince returns how many sessions were created at or after the
	// given timestamp.
	CountLoginsSince(ctx context.Context, from time.Time) (int64, error)
}
