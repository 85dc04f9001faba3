// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"gatekeeper/internal/delivery/http/response"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

type loginRequest struct {
	Email         string    `json:"email" validate:"required,email"`
	Password      string    `json:"password" validate:"required"`
	ApplicationID uuid.UUID `json:"applicationId" validate:"required"`
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

type requestResetRequest struct {
	Email         string    `json:"email" validate:"required,email"`
	ApplicationID uuid.UUID `json:"applicationId"`
}

type updatePasswordRequest struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Login handles the login request and returns a fresh token bundle.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	bundle, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		ApplicationID: req.ApplicationID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bundle, "Login successful")
}

// Refresh rotates the refresh token presented as a path parameter.
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Refresh token is required")
	}

	bundle, err := h.uc.Refresh(c.Request().Context(), &usecase.RefreshInput{RefreshToken: token})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bundle, "Token refreshed successfully")
}

// Register handles the user registration request. Duplicate emails surface as
// the same generic rejection as any other bad input.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrEmailAlreadyRegistered) {
			return response.BadRequest(c, "REGISTRATION_FAILED", "registration could not be completed")
		}

		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "User registered successfully")
}

// RequestPasswordReset issues a reset token. The response is identical whether
// or not the email is registered.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req requestResetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.RequestPasswordReset(c.Request().Context(), &usecase.RequestPasswordResetInput{
		Email:         req.Email,
		ApplicationID: req.ApplicationID,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "If the account exists, a reset token has been issued")
}

// VerifyResetToken checks a reset token and returns the email it belongs to.
func (h *AuthHandler) VerifyResetToken(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Reset token is required")
	}

	output, err := h.uc.VerifyResetToken(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Reset token is valid")
}

// UpdatePassword redeems a reset token and sets the new password.
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Reset token is required")
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.UpdatePasswordFromResetToken(c.Request().Context(), &usecase.UpdatePasswordInput{
		Token:           token,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password updated successfully")
}

// CountLogins reports how many sessions were created since the dateFrom query
// parameter. Requires the Admin role.
func (h *AuthHandler) CountLogins(c echo.Context) error {
	dateFrom := c.QueryParam("dateFrom")
	if dateFrom == "" {
		return response.BadRequest(c, "INVALID_INPUT", "dateFrom query parameter is required")
	}

	from, err := parseDateFrom(dateFrom)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "dateFrom must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}

	count, err := h.uc.CountLoginsSince(c.Request().Context(), from)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"amount": count}, "Login count retrieved")
}

func parseDateFrom(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", raw)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
