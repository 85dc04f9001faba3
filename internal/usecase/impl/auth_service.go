// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "gatekeeper/internal/delivery/context"
	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/domain/service"
	"gatekeeper/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager       repository.TransactionManager
	userRepo        repository.UserRepository
	applicationRepo repository.ApplicationRepository
	sessionRepo     repository.SessionRepository
	hasher          service.PasswordHasher
	tokenService    service.TokenService
	eventPublisher  service.EventPublisher
	logger          *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	UserRepo        repository.UserRepository
	ApplicationRepo repository.ApplicationRepository
	SessionRepo     repository.SessionRepository
	Hasher          service.PasswordHasher
	TokenService    service.TokenService
	EventPublisher  service.EventPublisher
	Logger          *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:       params.TxManager,
		userRepo:        params.UserRepo,
		applicationRepo: params.ApplicationRepo,
		sessionRepo:     params.SessionRepo,
		hasher:          params.Hasher,
		tokenService:    params.TokenService,
		eventPublisher:  params.EventPublisher,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login orchestrates the full login flow: credential check, application
// membership check, token minting and session replacement.
//
// Unknown email, wrong password, revoked access and unauthorized application
// all collapse into ErrInvalidCredentials so the response never reveals which
// check failed. Only an unregistered application id is reported separately.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenBundle, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email), slog.Any("applicationID", input.ApplicationID))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed: unknown email", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	// The password check always runs, even for revoked accounts.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed: password mismatch", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !user.HasGrantedAccess {
		srv.log(ctx).Warn("Login failed: access not granted", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if !user.CanAccessApplication(input.ApplicationID) {
		srv.log(ctx).Warn("Login failed: application not authorized for user",
			slog.Any("userID", user.ID), slog.Any("applicationID", input.ApplicationID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	application, err := srv.applicationRepo.FindByID(ctx, input.ApplicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			srv.log(ctx).Warn("Login failed: application not registered", slog.Any("applicationID", input.ApplicationID))

			return nil, errors.Wrap(domainerrors.ErrApplicationNotFound, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find application by id")
	}

	bundle, err := srv.issueSession(ctx, user, application.ID, false)
	if err != nil {
		srv.log(ctx).Error("Login failed", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session during login")
	}

	srv.publishLoginEvent(ctx, user.ID, application.ID)

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID), slog.Any("applicationID", application.ID))

	return bundle, nil
}

// Refresh rotates a refresh token into a new token pair. The presented token
// must verify and must still be the stored one for its (user, application)
// pair; every failure, including unexpected storage errors, surfaces as the
// same unauthorized rejection.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.TokenBundle, error) {
	srv.log(ctx).Debug("Attempting to refresh token pair")

	claims, err := srv.tokenService.Verify(input.RefreshToken)
	if err != nil {
		srv.log(ctx).Warn("Refresh failed: token verification", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh failed")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		srv.log(ctx).Warn("Refresh failed: user lookup", slog.Any("userID", claims.UserID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh failed")
	}

	application, err := srv.applicationRepo.FindByID(ctx, claims.ApplicationID)
	if err != nil {
		srv.log(ctx).Warn("Refresh failed: application lookup", slog.Any("applicationID", claims.ApplicationID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh failed")
	}

	// Replay check: a token superseded by a later login or refresh no longer
	// matches the stored session and is permanently unusable.
	if _, err := srv.sessionRepo.FindByRefreshToken(ctx, input.RefreshToken, user.ID, application.ID); err != nil {
		srv.log(ctx).Warn("Refresh failed: presented token is not the active one", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh failed")
	}

	bundle, err := srv.issueSession(ctx, user, application.ID, true)
	if err != nil {
		srv.log(ctx).Error("Refresh failed", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh failed")
	}

	srv.log(ctx).Debug("Token pair refreshed", slog.Any("userID", user.ID), slog.Any("applicationID", application.ID))

	return bundle, nil
}

// RequestPasswordReset issues a reset token and stores it on the user record,
// overwriting any earlier outstanding token. The outcome is indistinguishable
// for known and unknown emails.
func (srv *authService) RequestPasswordReset(ctx context.Context, input *usecase.RequestPasswordResetInput) error {
	srv.log(ctx).Debug("Password reset requested", slog.String("email", input.Email))

	// The outcome must never reveal whether the email is registered, so any
	// failure past this point is logged and swallowed.
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Debug("Password reset for unknown email, reporting success", slog.String("email", input.Email))
		} else {
			srv.log(ctx).Error("Failed to find user for password reset", slog.Any("error", err))
		}

		return nil
	}

	resetToken, err := srv.tokenService.IssueResetToken(service.TokenPayload{
		Email:         user.Email,
		Roles:         user.RoleIDs,
		UserID:        user.ID,
		ApplicationID: input.ApplicationID,
	})
	if err != nil {
		srv.log(ctx).Error("Failed to issue reset token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil
	}

	user.PasswordResetToken = resetToken
	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to store reset token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil
	}

	srv.log(ctx).Info("Password reset token issued", slog.Any("userID", user.ID))

	return nil
}

// VerifyResetToken checks that a reset token is valid and still the one on
// record, and returns the email it was issued for.
func (srv *authService) VerifyResetToken(ctx context.Context, token string) (*usecase.ResetTokenOutput, error) {
	user, err := srv.resolveResetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return &usecase.ResetTokenOutput{Email: user.Email}, nil
}

// UpdatePasswordFromResetToken redeems a reset token: it validates the
// confirmation, re-verifies the token, replaces the password hash and clears
// the stored token so it cannot be redeemed twice.
func (srv *authService) UpdatePasswordFromResetToken(ctx context.Context, input *usecase.UpdatePasswordInput) error {
	if input.Password == "" || input.Password != input.ConfirmPassword {
		return errors.Wrap(domainerrors.ErrPasswordMismatch, "password update rejected")
	}

	user, err := srv.resolveResetToken(ctx, input.Token)
	if err != nil {
		return err
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash new password", slog.Any("userID", user.ID), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrPasswordHashFailed, "password update failed")
	}

	user.PasswordHash = hashedPassword
	user.PasswordResetToken = ""

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to persist new password")
	}

	srv.log(ctx).Info("Password updated via reset token", slog.Any("userID", user.ID))

	return nil
}

// resolveResetToken verifies a reset token and loads the user it belongs to.
// Expired, malformed, foreign and already redeemed tokens all yield the same
// uniform rejection.
func (srv *authService) resolveResetToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := srv.tokenService.Verify(token)
	if err != nil {
		srv.log(ctx).Warn("Reset token verification failed", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token rejected")
	}

	user, err := srv.userRepo.FindByEmail(ctx, claims.Email)
	if err != nil {
		srv.log(ctx).Warn("Reset token user lookup failed", slog.String("email", claims.Email), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token rejected")
	}

	// Single use: a redeemed or superseded token no longer matches the record.
	if user.PasswordResetToken == "" || user.PasswordResetToken != token {
		srv.log(ctx).Warn("Reset token no longer on record", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrResetTokenInvalid, "reset token rejected")
	}

	return user, nil
}

// Register creates a new user account. The account starts with access revoked
// and the username defaulted to the email address. Duplicate detection and the
// insert run in one transaction.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Debug("Starting registration", slog.String("email", input.Email))

	if input.Password == "" || input.Password != input.ConfirmPassword {
		return nil, errors.Wrap(domainerrors.ErrPasswordMismatch, "registration rejected")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "registration failed")
	}

	var createdUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return errors.Wrap(domainerrors.ErrEmailAlreadyRegistered, "registration rejected")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check for existing user")
		}

		newUser := &entity.User{
			Username:         input.Email,
			FirstName:        input.FirstName,
			LastName:         input.LastName,
			Email:            input.Email,
			PasswordHash:     hashedPassword,
			HasGrantedAccess: false,
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		createdUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Info("User registered, access pending", slog.Any("userID", createdUser.ID))

	return &usecase.RegisterOutput{UserID: createdUser.ID}, nil
}

// CountLoginsSince reports how many sessions were created at or after the
// given timestamp.
func (srv *authService) CountLoginsSince(ctx context.Context, from time.Time) (int64, error) {
	count, err := srv.sessionRepo.CountCreatedSince(ctx, from)
	if err != nil {
		srv.log(ctx).Error("Failed to count recent logins", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to count recent logins")
	}

	return count, nil
}

// issueSession mints a fresh token pair for the user and application and
// replaces the stored session for the pair in a single atomic write.
func (srv *authService) issueSession(ctx context.Context, user *entity.User, applicationID uuid.UUID, refresh bool) (*usecase.TokenBundle, error) {
	accessToken, refreshToken, err := srv.tokenService.IssueTokenPair(service.TokenPayload{
		Email:         user.Email,
		Roles:         user.RoleIDs,
		UserID:        user.ID,
		ApplicationID: applicationID,
		Refresh:       refresh,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign token pair")
	}

	expiresIn := int(srv.tokenService.AccessTokenTTL().Seconds())

	session := &entity.Session{
		UserID:        user.ID,
		ApplicationID: applicationID,
		TokenType:     entity.TokenTypeBearer,
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		ExpiresIn:     expiresIn,
	}

	if _, err := srv.sessionRepo.Upsert(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to upsert session")
	}

	return &usecase.TokenBundle{
		Type:         entity.TokenTypeBearer,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// publishLoginEvent emits the user_logged_in event. Publishing is best-effort:
// a failure is logged and never affects the login result.
func (srv *authService) publishLoginEvent(ctx context.Context, userID, applicationID uuid.UUID) {
	event := &service.LoginEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		UserID:        userID,
		ApplicationID: applicationID,
	}

	if err := srv.eventPublisher.PublishLoginEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish login event",
			slog.Any("userID", userID), slog.Any("applicationID", applicationID), slog.Any("error", err))
	}
}
