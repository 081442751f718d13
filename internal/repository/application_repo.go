package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/proctorly/integrity-api/internal/models"
)

// ApplicationRepository defines data operations for candidate applications.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id string) (models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	Create(ctx context.Context, application *models.Application) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository instantiates the repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Application{}).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.created_at ASC, answers.id ASC")
		}).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("behavioral_events.occurred_at ASC, behavioral_events.id ASC")
		})
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (models.Application, error) {
	var application models.Application
	if err := r.baseQuery(ctx).First(&application, "id = ?", id).Error; err != nil {
		return models.Application{}, err
	}

	return application, nil
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var applications []models.Application
	if err := r.baseQuery(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *applicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}
