package postgres

import (
	"context"

	"gatekeeper/internal/domain/entity"
	"gatekeeper/internal/domain/repository"
	"gatekeeper/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// applicationRepository implements the domain's ApplicationRepository interface using GORM.
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository is the constructor for applicationRepository.
func NewApplicationRepository(db *gorm.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

// FindByID retrieves a single application by its unique ID.
func (repo *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var appM model.ApplicationModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&appM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrApplicationNotFound
		}

		return nil, errors.Wrap(err, "failed to find application by id")
	}

	return toApplicationDomain(&appM), nil
}

// FindByIDs retrieves the applications whose ids appear in the given set.
func (repo *applicationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Application, error) {
	var appModels []model.ApplicationModel
	err := repo.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&appModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find applications by ids")
	}

	apps := make([]*entity.Application, 0, len(appModels))
	for i := range appModels {
		apps = append(apps, toApplicationDomain(&appModels[i]))
	}

	return apps, nil
}

func toApplicationDomain(appM *model.ApplicationModel) *entity.Application {
	return &entity.Application{
		ID:        appM.ID,
		Name:      appM.Name,
		CreatedAt: appM.CreatedAt,
	}
}
