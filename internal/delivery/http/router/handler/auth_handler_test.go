package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gatekeeper/internal/delivery/http/validator"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	mockUsecase "gatekeeper/internal/mocks/usecase"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *mockUsecase.MockAuthUsecase) {
	uc := mockUsecase.NewMockAuthUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAuthHandler(uc, logger), uc
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	appID := uuid.New()
	body := `{"email":"user@example.com","password":"Password123!","applicationId":"` + appID.String() + `"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth", body)

	uc.EXPECT().
		Login(c.Request().Context(), &usecase.LoginInput{
			Email:         "user@example.com",
			Password:      "Password123!",
			ApplicationID: appID,
		}).
		Return(&usecase.TokenBundle{
			Type:         entity.TokenTypeBearer,
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    900,
		}, nil)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	responseBody := rec.Body.String()
	assert.Contains(t, responseBody, `"accessToken":"access-token"`)
	assert.Contains(t, responseBody, `"refreshToken":"refresh-token"`)
	assert.Contains(t, responseBody, `"expiresIn":900`)
	assert.Contains(t, responseBody, `"type":"Bearer"`)
}

func TestAuthHandler_Login_MalformedEmail(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	body := `{"email":"not-an-email","password":"Password123!","applicationId":"` + uuid.NewString() + `"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth", body)

	err := h.Login(c)

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
}

func TestAuthHandler_Login_UsecaseErrorPropagates(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	appID := uuid.New()
	body := `{"email":"user@example.com","password":"wrong","applicationId":"` + appID.String() + `"}`
	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth", body)

	uc.EXPECT().
		Login(c.Request().Context(), mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, domainerrors.ErrInvalidCredentials)

	err := h.Login(c)

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/auth/some-refresh-token", "")
	c.SetParamNames("token")
	c.SetParamValues("some-refresh-token")

	uc.EXPECT().
		Refresh(c.Request().Context(), &usecase.RefreshInput{RefreshToken: "some-refresh-token"}).
		Return(&usecase.TokenBundle{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accessToken":"new-access"`)
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	c, rec := newTestContext(t, http.MethodPut, "/api/v1/auth/", "")

	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	body := `{"email":"new@example.com","password":"Password123!","confirmPassword":"Password123!","firstName":"New","lastName":"User"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/register", body)

	userID := uuid.New()
	uc.EXPECT().
		Register(c.Request().Context(), &usecase.RegisterInput{
			Email:           "new@example.com",
			Password:        "Password123!",
			ConfirmPassword: "Password123!",
			FirstName:       "New",
			LastName:        "User",
		}).
		Return(&usecase.RegisterOutput{UserID: userID}, nil)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

func TestAuthHandler_Register_DuplicateEmailIsGenericBadRequest(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	body := `{"email":"taken@example.com","password":"Password123!","confirmPassword":"Password123!"}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/register", body)

	uc.EXPECT().
		Register(c.Request().Context(), mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrEmailAlreadyRegistered)

	require.NoError(t, h.Register(c))

	// The duplicate must not be distinguishable from any other rejection.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	responseBody := rec.Body.String()
	assert.Contains(t, responseBody, "registration could not be completed")
	assert.NotContains(t, responseBody, "already")
}

func TestAuthHandler_RequestPasswordReset_Success(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	body := `{"email":"user@example.com"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/auth/resets", body)

	uc.EXPECT().
		RequestPasswordReset(c.Request().Context(), &usecase.RequestPasswordResetInput{Email: "user@example.com"}).
		Return(nil)

	require.NoError(t, h.RequestPasswordReset(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "If the account exists")
}

func TestAuthHandler_VerifyResetToken_Success(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/resets/reset-token", "")
	c.SetParamNames("token")
	c.SetParamValues("reset-token")

	uc.EXPECT().
		VerifyResetToken(c.Request().Context(), "reset-token").
		Return(&usecase.ResetTokenOutput{Email: "user@example.com"}, nil)

	require.NoError(t, h.VerifyResetToken(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user@example.com")
}

func TestAuthHandler_UpdatePassword_Success(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	body := `{"password":"NewPassword1!","confirmPassword":"NewPassword1!"}`
	c, rec := newTestContext(t, http.MethodPut, "/api/v1/auth/resets/reset-token", body)
	c.SetParamNames("token")
	c.SetParamValues("reset-token")

	uc.EXPECT().
		UpdatePasswordFromResetToken(c.Request().Context(), &usecase.UpdatePasswordInput{
			Token:           "reset-token",
			Password:        "NewPassword1!",
			ConfirmPassword: "NewPassword1!",
		}).
		Return(nil)

	require.NoError(t, h.UpdatePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_CountLogins_Success(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/amounts?dateFrom=2026-08-01", "")

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	uc.EXPECT().CountLoginsSince(c.Request().Context(), from).Return(int64(7), nil)

	require.NoError(t, h.CountLogins(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":7`)
}

func TestAuthHandler_CountLogins_RFC3339DateFrom(t *testing.T) {
	h, uc := newTestAuthHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/amounts?dateFrom=2026-08-01T12%3A30%3A00Z", "")

	from := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	uc.EXPECT().CountLoginsSince(c.Request().Context(), from).Return(int64(3), nil)

	require.NoError(t, h.CountLogins(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_CountLogins_MissingDateFrom(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/amounts", "")

	require.NoError(t, h.CountLogins(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_CountLogins_InvalidDateFrom(t *testing.T) {
	h, _ := newTestAuthHandler(t)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/auth/amounts?dateFrom=yesterday", "")

	require.NoError(t, h.CountLogins(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/health", "")

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
