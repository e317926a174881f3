package repository

import (
	"context"
	"errors"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

type ExperienceFilters struct {
	Status     *models.ExperienceStatus
	Category   *string
	Region     *string
	ProviderID *uint
	MinPrice   *float64
	MaxPrice   *float64
}

type ExperienceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Experience, error)
	FindByToken(ctx context.Context, token string) (*models.Experience, error)
	GetAll(ctx context.Context, filters ExperienceFilters, page, perPage int) ([]models.Experience, int64, error)
	Create(ctx context.Context, experience *models.Experience) error
	Update(ctx context.Context, experience *models.Experience) error
	UpdateStatus(ctx context.Context, id uint, status models.ExperienceStatus) (*models.Experience, error)
	Archive(ctx context.Context, id uint) error
}

type GormExperienceRepository struct {
	db *gorm.DB
}

func NewGormExperienceRepository(db *gorm.DB) *GormExperienceRepository {
	return &GormExperienceRepository{db: db}
}

func (r *GormExperienceRepository) FindByID(ctx context.Context, id uint) (*models.Experience, error) {
	var e models.Experience
	err := r.db.WithContext(ctx).Preload("Provider").First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrExperienceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormExperienceRepository) FindByToken(ctx context.Context, token string) (*models.Experience, error) {
	var e models.Experience
	err := r.db.WithContext(ctx).Preload("Provider").Where("token = ?", token).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrExperienceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormExperienceRepository) GetAll(ctx context.Context, filters ExperienceFilters, page, perPage int) ([]models.Experience, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Experience{})

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		q = q.Where("category = ?", *filters.Category)
	}
	if filters.Region != nil {
		q = q.Where("region = ?", *filters.Region)
	}
	if filters.ProviderID != nil {
		q = q.Where("provider_id = ?", *filters.ProviderID)
	}
	if filters.MinPrice != nil {
		q = q.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		q = q.Where("price <= ?", *filters.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var experiences []models.Experience
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&experiences).Error
	if err != nil {
		return nil, 0, err
	}
	return experiences, total, nil
}

func (r *GormExperienceRepository) Create(ctx context.Context, experience *models.Experience) error {
	return r.db.WithContext(ctx).Create(experience).Error
}

func (r *GormExperienceRepository) Update(ctx context.Context, experience *models.Experience) error {
	return r.db.WithContext(ctx).Save(experience).Error
}

func (r *GormExperienceRepository) UpdateStatus(ctx context.Context, id uint, status models.ExperienceStatus) (*models.Experience, error) {
	var updated *models.Experience
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Experience
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrExperienceNotFound
			}
			return err
		}

		e.Status = status
		if status == models.ExperienceStatusPublished && e.PublishedAt == nil {
			now := time.Now().UTC()
			e.PublishedAt = &now
		}

		if err := tx.Save(&e).Error; err != nil {
			return err
		}
		updated = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *GormExperienceRepository) Archive(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Experience{}).
		Where("id = ?", id).
		Update("status", models.ExperienceStatusArchived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrExperienceNotFound
	}
	return nil
}
