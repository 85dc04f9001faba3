package auth

import (
	"testing"
	"time"

	"gatekeeper/config"
	"gatekeeper/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.JWT = "test-secret"
	cfg.Auth = &config.AuthConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		ResetTokenTTL:   time.Hour,
	}

	return cfg
}

func testPayload() service.TokenPayload {
	return service.TokenPayload{
		Email:         "user@example.com",
		Roles:         []string{"Admin", "Editor"},
		UserID:        uuid.New(),
		ApplicationID: uuid.New(),
	}
}

func TestJWTService_NewJWTService_RequiresSecret(t *testing.T) {
	cfg := newTestConfig()
	cfg.SecretKey.JWT = ""

	_, err := NewJWTService(cfg)
	require.Error(t, err)
}

func TestJWTService_IssueTokenPair_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	payload := testPayload()
	accessToken, refreshToken, err := svc.IssueTokenPair(payload)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := svc.Verify(accessToken)
	require.NoError(t, err)
	assert.Equal(t, payload.Email, claims.Email)
	assert.Equal(t, payload.Roles, claims.Roles)
	assert.Equal(t, payload.UserID, claims.UserID)
	assert.Equal(t, payload.ApplicationID, claims.ApplicationID)
	assert.False(t, claims.Refresh)
}

func TestJWTService_IssueTokenPair_RefreshMarker(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	payload := testPayload()
	payload.Refresh = true

	_, refreshToken, err := svc.IssueTokenPair(payload)
	require.NoError(t, err)

	claims, err := svc.Verify(refreshToken)
	require.NoError(t, err)
	assert.True(t, claims.Refresh)
}

func TestJWTService_IssueResetToken_RoundTrip(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	payload := testPayload()
	resetToken, err := svc.IssueResetToken(payload)
	require.NoError(t, err)

	claims, err := svc.Verify(resetToken)
	require.NoError(t, err)
	assert.Equal(t, payload.Email, claims.Email)
}

func TestJWTService_Verify_Expired(t *testing.T) {
	svc := &jwtService{
		secret:     []byte("test-secret"),
		accessTTL:  -time.Minute,
		refreshTTL: -time.Minute,
		resetTTL:   -time.Minute,
	}

	token, _, err := svc.IssueTokenPair(testPayload())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_Verify_WrongKey(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	otherCfg := newTestConfig()
	otherCfg.SecretKey.JWT = "other-secret"
	otherSvc, err := NewJWTService(otherCfg)
	require.NoError(t, err)

	token, _, err := otherSvc.IssueTokenPair(testPayload())
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_Verify_Malformed(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	_, err = svc.Verify("not-a-token")
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_AccessTokenTTL(t *testing.T) {
	svc, err := NewJWTService(newTestConfig())
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, svc.AccessTokenTTL())
}

func TestJWTService_Defaults_WhenAuthConfigMissing(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.JWT = "test-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	assert.Equal(t, defaultAccessTTL, svc.AccessTokenTTL())
}
