package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	mockRepo "gatekeeper/internal/mocks/repository"
	mockSvc "gatekeeper/internal/mocks/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service         usecase.AuthUsecase
	txManager       *mockRepo.MockTransactionManager
	userRepo        *mockRepo.MockUserRepository
	applicationRepo *mockRepo.MockApplicationRepository
	sessionRepo     *mockRepo.MockSessionRepository
	hasher          *mockSvc.MockPasswordHasher
	tokenService    *mockSvc.MockTokenService
	eventPublisher  *mockSvc.MockEventPublisher
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	applicationRepo := mockRepo.NewMockApplicationRepository(t)
	sessionRepo := mockRepo.NewMockSessionRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	eventPublisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAuthService(AuthServiceParams{
		TxManager:       txManager,
		UserRepo:        userRepo,
		ApplicationRepo: applicationRepo,
		SessionRepo:     sessionRepo,
		Hasher:          hasher,
		TokenService:    tokenService,
		EventPublisher:  eventPublisher,
		Logger:          logger,
	})

	return authServiceFixtures{
		service:         svc,
		txManager:       txManager,
		userRepo:        userRepo,
		applicationRepo: applicationRepo,
		sessionRepo:     sessionRepo,
		hasher:          hasher,
		tokenService:    tokenService,
		eventPublisher:  eventPublisher,
	}
}

func grantedUser(applicationID uuid.UUID) *entity.User {
	grantedOn := time.Now().Add(-time.Hour)

	return &entity.User{
		ID:               uuid.New(),
		Username:         "user@example.com",
		Email:            "user@example.com",
		PasswordHash:     "hashed-password",
		HasGrantedAccess: true,
		GrantedAccessOn:  &grantedOn,
		RoleIDs:          []string{"Admin"},
		ApplicationIDs:   []uuid.UUID{applicationID},
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)
	app := &entity.Application{ID: appID, Name: "console"}

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)
	fx.applicationRepo.EXPECT().FindByID(ctx, appID).Return(app, nil)
	fx.tokenService.EXPECT().IssueTokenPair(service.TokenPayload{
		Email:         user.Email,
		Roles:         user.RoleIDs,
		UserID:        user.ID,
		ApplicationID: appID,
	}).Return("access-token", "refresh-token", nil)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(15 * time.Minute)
	fx.sessionRepo.EXPECT().
		Upsert(ctx, mock.AnythingOfType("*entity.Session")).
		Run(func(ctx context.Context, session *entity.Session) {
			assert.Equal(t, user.ID, session.UserID)
			assert.Equal(t, appID, session.ApplicationID)
			assert.Equal(t, entity.TokenTypeBearer, session.TokenType)
			assert.Equal(t, "access-token", session.AccessToken)
			assert.Equal(t, "refresh-token", session.RefreshToken)
			assert.Equal(t, 900, session.ExpiresIn)
		}).
		Return(&entity.Session{}, nil)
	fx.eventPublisher.EXPECT().
		PublishLoginEvent(ctx, &service.LoginEvent{UserID: user.ID, ApplicationID: appID}).
		Return(nil)

	bundle, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:         user.Email,
		Password:      "Password123!",
		ApplicationID: appID,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.TokenTypeBearer, bundle.Type)
	assert.Equal(t, "access-token", bundle.AccessToken)
	assert.Equal(t, "refresh-token", bundle.RefreshToken)
	assert.Equal(t, 900, bundle.ExpiresIn)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:         "nobody@example.com",
		Password:      "Password123!",
		ApplicationID: uuid.New(),
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("wrong", user.PasswordHash).Return(false)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:         user.Email,
		Password:      "wrong",
		ApplicationID: appID,
	})

	// Indistinguishable from the unknown-email rejection.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_AccessNotGranted(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)
	user.HasGrantedAccess = false
	user.GrantedAccessOn = nil

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:         user.Email,
		Password:      "Password123!",
		ApplicationID: appID,
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_ApplicationNotAuthorized(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())
	otherAppID := uuid.New()

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:         user.Email,
		Password:      "Password123!",
		ApplicationID: otherAppID,
	})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_ApplicationNotRegistered(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)
	fx.applicationRepo.EXPECT().FindByID(ctx, appID).Return(nil, repository.ErrApplicationNotFound)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:         user.Email,
		Password:      "Password123!",
		ApplicationID: appID,
	})

	assert.ErrorIs(t, err, domainerrors.ErrApplicationNotFound)
}

func TestAuthService_Login_PublishFailureDoesNotFailLogin(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)
	app := &entity.Application{ID: appID, Name: "console"}

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Check("Password123!", user.PasswordHash).Return(true)
	fx.applicationRepo.EXPECT().FindByID(ctx, appID).Return(app, nil)
	fx.tokenService.EXPECT().
		IssueTokenPair(mock.AnythingOfType("service.TokenPayload")).
		Return("access-token", "refresh-token", nil)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(15 * time.Minute)
	fx.sessionRepo.EXPECT().
		Upsert(ctx, mock.AnythingOfType("*entity.Session")).
		Return(&entity.Session{}, nil)
	fx.eventPublisher.EXPECT().
		PublishLoginEvent(ctx, mock.AnythingOfType("*service.LoginEvent")).
		Return(errors.New("broker unavailable"))

	bundle, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:         user.Email,
		Password:      "Password123!",
		ApplicationID: appID,
	})

	require.NoError(t, err)
	assert.Equal(t, "access-token", bundle.AccessToken)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)
	app := &entity.Application{ID: appID, Name: "console"}
	claims := &service.Claims{
		Email:         user.Email,
		Roles:         user.RoleIDs,
		UserID:        user.ID,
		ApplicationID: appID,
	}

	fx.tokenService.EXPECT().Verify("stored-refresh").Return(claims, nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.applicationRepo.EXPECT().FindByID(ctx, appID).Return(app, nil)
	fx.sessionRepo.EXPECT().
		FindByRefreshToken(ctx, "stored-refresh", user.ID, appID).
		Return(&entity.Session{RefreshToken: "stored-refresh"}, nil)
	fx.tokenService.EXPECT().IssueTokenPair(service.TokenPayload{
		Email:         user.Email,
		Roles:         user.RoleIDs,
		UserID:        user.ID,
		ApplicationID: appID,
		Refresh:       true,
	}).Return("new-access", "new-refresh", nil)
	fx.tokenService.EXPECT().AccessTokenTTL().Return(15 * time.Minute)
	fx.sessionRepo.EXPECT().
		Upsert(ctx, mock.AnythingOfType("*entity.Session")).
		Run(func(ctx context.Context, session *entity.Session) {
			assert.Equal(t, "new-refresh", session.RefreshToken)
		}).
		Return(&entity.Session{}, nil)

	bundle, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "stored-refresh"})

	require.NoError(t, err)
	assert.Equal(t, "new-access", bundle.AccessToken)
	assert.Equal(t, "new-refresh", bundle.RefreshToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.tokenService.EXPECT().Verify("garbage").Return(nil, service.ErrTokenInvalid)

	_, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "garbage"})

	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_ReplayedTokenRejected(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)
	app := &entity.Application{ID: appID}
	claims := &service.Claims{UserID: user.ID, ApplicationID: appID, Email: user.Email}

	fx.tokenService.EXPECT().Verify("superseded-refresh").Return(claims, nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.applicationRepo.EXPECT().FindByID(ctx, appID).Return(app, nil)
	fx.sessionRepo.EXPECT().
		FindByRefreshToken(ctx, "superseded-refresh", user.ID, appID).
		Return(nil, repository.ErrSessionNotFound)

	_, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "superseded-refresh"})

	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_UserGone(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	userID := uuid.New()
	claims := &service.Claims{UserID: userID, ApplicationID: uuid.New()}

	fx.tokenService.EXPECT().Verify("refresh-token").Return(claims, nil)
	fx.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "refresh-token"})

	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_RequestPasswordReset_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	appID := uuid.New()
	user := grantedUser(appID)

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.tokenService.EXPECT().IssueResetToken(service.TokenPayload{
		Email:         user.Email,
		Roles:         user.RoleIDs,
		UserID:        user.ID,
		ApplicationID: appID,
	}).Return("reset-token", nil)
	fx.userRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, updated *entity.User) {
			assert.Equal(t, "reset-token", updated.PasswordResetToken)
		}).
		Return(nil)

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{
		Email:         user.Email,
		ApplicationID: appID,
	})

	require.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_UnknownEmailStillSucceeds(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound)

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{
		Email: "nobody@example.com",
	})

	require.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_OverwritesPreviousToken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())
	user.PasswordResetToken = "older-token"

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.tokenService.EXPECT().
		IssueResetToken(mock.AnythingOfType("service.TokenPayload")).
		Return("newer-token", nil)
	fx.userRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, updated *entity.User) {
			assert.Equal(t, "newer-token", updated.PasswordResetToken)
		}).
		Return(nil)

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{Email: user.Email})

	require.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_StoreFailureStillSucceeds(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.tokenService.EXPECT().
		IssueResetToken(mock.AnythingOfType("service.TokenPayload")).
		Return("reset-token", nil)
	fx.userRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Return(errors.New("db down"))

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{Email: user.Email})

	require.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_IssueFailureStillSucceeds(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())

	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.tokenService.EXPECT().
		IssueResetToken(mock.AnythingOfType("service.TokenPayload")).
		Return("", errors.New("signing key unavailable"))

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{Email: user.Email})

	require.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_LookupFailureStillSucceeds(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, "user@example.com").
		Return(nil, errors.New("connection refused"))

	err := fx.service.RequestPasswordReset(ctx, &usecase.RequestPasswordResetInput{Email: "user@example.com"})

	require.NoError(t, err)
}

func TestAuthService_VerifyResetToken_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())
	user.PasswordResetToken = "reset-token"

	fx.tokenService.EXPECT().Verify("reset-token").Return(&service.Claims{Email: user.Email}, nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

	output, err := fx.service.VerifyResetToken(ctx, "reset-token")

	require.NoError(t, err)
	assert.Equal(t, user.Email, output.Email)
}

func TestAuthService_VerifyResetToken_Expired(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.tokenService.EXPECT().Verify("stale-token").Return(nil, service.ErrTokenExpired)

	_, err := fx.service.VerifyResetToken(ctx, "stale-token")

	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestAuthService_UpdatePasswordFromResetToken_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())
	user.PasswordResetToken = "reset-token"

	fx.tokenService.EXPECT().Verify("reset-token").Return(&service.Claims{Email: user.Email}, nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
	fx.hasher.EXPECT().Hash("NewPassword1!").Return("new-hash", nil)
	fx.userRepo.EXPECT().
		Update(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, updated *entity.User) {
			assert.Equal(t, "new-hash", updated.PasswordHash)
			assert.Empty(t, updated.PasswordResetToken)
		}).
		Return(nil)

	err := fx.service.UpdatePasswordFromResetToken(ctx, &usecase.UpdatePasswordInput{
		Token:           "reset-token",
		Password:        "NewPassword1!",
		ConfirmPassword: "NewPassword1!",
	})

	require.NoError(t, err)
}

func TestAuthService_UpdatePasswordFromResetToken_ConfirmationMismatch(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	// The token is never inspected when the confirmation fails.
	err := fx.service.UpdatePasswordFromResetToken(ctx, &usecase.UpdatePasswordInput{
		Token:           "reset-token",
		Password:        "NewPassword1!",
		ConfirmPassword: "different",
	})

	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)
}

func TestAuthService_UpdatePasswordFromResetToken_EmptyPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	err := fx.service.UpdatePasswordFromResetToken(ctx, &usecase.UpdatePasswordInput{
		Token:           "reset-token",
		Password:        "",
		ConfirmPassword: "",
	})

	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)
}

func TestAuthService_UpdatePasswordFromResetToken_AlreadyRedeemed(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())
	user.PasswordResetToken = ""

	fx.tokenService.EXPECT().Verify("reset-token").Return(&service.Claims{Email: user.Email}, nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

	err := fx.service.UpdatePasswordFromResetToken(ctx, &usecase.UpdatePasswordInput{
		Token:           "reset-token",
		Password:        "NewPassword1!",
		ConfirmPassword: "NewPassword1!",
	})

	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestAuthService_UpdatePasswordFromResetToken_SupersededToken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	user := grantedUser(uuid.New())
	user.PasswordResetToken = "newer-token"

	fx.tokenService.EXPECT().Verify("older-token").Return(&service.Claims{Email: user.Email}, nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

	err := fx.service.UpdatePasswordFromResetToken(ctx, &usecase.UpdatePasswordInput{
		Token:           "older-token",
		Password:        "NewPassword1!",
		ConfirmPassword: "NewPassword1!",
	})

	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	userRepo := mockRepo.NewMockUserRepository(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().UserRepo().Return(userRepo)

	fx.hasher.EXPECT().Hash("Password123!").Return("hashed-password", nil)
	userRepo.EXPECT().
		FindByEmail(ctx, "new@example.com").
		Return(nil, repository.ErrUserNotFound)
	userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, newUser *entity.User) {
			assert.Equal(t, "new@example.com", newUser.Email)
			assert.Equal(t, "new@example.com", newUser.Username)
			assert.Equal(t, "hashed-password", newUser.PasswordHash)
			assert.False(t, newUser.HasGrantedAccess)

			newUser.ID = uuid.New()
		}).
		Return(nil)
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})

	output, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:           "new@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
		FirstName:       "New",
		LastName:        "User",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, output.UserID)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:           "new@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password124!",
	})

	assert.ErrorIs(t, err, domainerrors.ErrPasswordMismatch)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	existing := grantedUser(uuid.New())
	existing.Email = "taken@example.com"

	userRepo := mockRepo.NewMockUserRepository(t)
	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().UserRepo().Return(userRepo)

	fx.hasher.EXPECT().Hash("Password123!").Return("hashed-password", nil)
	userRepo.EXPECT().FindByEmail(ctx, "taken@example.com").Return(existing, nil)
	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})

	_, err := fx.service.Register(ctx, &usecase.RegisterInput{
		Email:           "taken@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
	})

	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestAuthService_CountLoginsSince_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fx.sessionRepo.EXPECT().CountCreatedSince(ctx, from).Return(int64(42), nil)

	count, err := fx.service.CountLoginsSince(ctx, from)

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestAuthService_CountLoginsSince_RepositoryError(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	from := time.Now()
	fx.sessionRepo.EXPECT().CountCreatedSince(ctx, from).Return(int64(0), errors.New("db down"))

	_, err := fx.service.CountLoginsSince(ctx, from)

	require.Error(t, err)
}
