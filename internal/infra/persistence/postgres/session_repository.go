package postgres

import (
	"context"
	"time"

	"gatekeeper/internal/domain/entity"
	domainerrors "gatekeeper/internal/domain/errors"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRepository implements the domain's SessionRepository interface using GORM.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Upsert creates or replaces the session for the (user, application) pair.
// The ON CONFLICT clause makes find-or-create a single conditional write, so
// concurrent logins for the same pair cannot produce duplicate rows; the last
// write wins cleanly.
func (repo *sessionRepository) Upsert(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	sessionM := fromSessionDomain(session)
	sessionM.CreatedAt = time.Now()

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "application_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"token_type", "access_token", "refresh_token", "expires_in", "created_at",
			}),
		}).
		Create(sessionM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return nil, domainerrors.NewDatabaseExecuteError(err, "invalid user or application reference")
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to upsert session")
	}

	return toSessionDomain(sessionM), nil
}

// FindByRefreshToken retrieves the session currently on record for the
// identity/application pair, keyed by the presented refresh token. Superseded
// tokens no longer match because Upsert overwrites in place.
func (repo *sessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string, userID, applicationID uuid.UUID) (*entity.Session, error) {
	var sessionM model.SessionModel
	err := repo.db.WithContext(ctx).
		Where("refresh_token = ? AND user_id = ? AND application_id = ?", refreshToken, userID, applicationID).
		First(&sessionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session by refresh token")
	}

	return toSessionDomain(&sessionM), nil
}

// CountCreatedSince returns the number of sessions created at or after the given timestamp.
func (repo *sessionRepository) CountCreatedSince(ctx context.Context, from time.Time) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.SessionModel{}).
		Where("created_at >= ?", from).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count sessions")
	}

	return count, nil
}

func toSessionDomain(sessionM *model.SessionModel) *entity.Session {
	return &entity.Session{
		ID:            sessionM.ID,
		UserID:        sessionM.UserID,
		ApplicationID: sessionM.ApplicationID,
		TokenType:     sessionM.TokenType,
		AccessToken:   sessionM.AccessToken,
		RefreshToken:  sessionM.RefreshToken,
		ExpiresIn:     sessionM.ExpiresIn,
		CreatedAt:     sessionM.CreatedAt,
	}
}

func fromSessionDomain(session *entity.Session) *model.SessionModel {
	return &model.SessionModel{
		ID:            session.ID,
		UserID:        session.UserID,
		ApplicationID: session.ApplicationID,
		TokenType:     session.TokenType,
		AccessToken:   session.AccessToken,
		RefreshToken:  session.RefreshToken,
		ExpiresIn:     session.ExpiresIn,
		CreatedAt:     session.CreatedAt,
	}
}
