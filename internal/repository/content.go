package repository

import (
	"context"
	"errors"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

type ContentRepository interface {
	// FindByRef accepts a slug, a UUID token or a numeric id.
	FindByRef(ctx context.Context, ref string) (*models.Content, error)
	ListPublished(ctx context.Context, contentType *models.ContentType, page, perPage int) ([]models.Content, int64, error)
	Create(ctx context.Context, content *models.Content) error
	Update(ctx context.Context, content *models.Content) error
	SetPublished(ctx context.Context, id uint, published bool) (*models.Content, error)
	Delete(ctx context.Context, id uint) error
}

type GormContentRepository struct {
	db *gorm.DB
}

func NewGormContentRepository(db *gorm.DB) *GormContentRepository {
	return &GormContentRepository{db: db}
}

func (r *GormContentRepository) FindByRef(ctx context.Context, ref string) (*models.Content, error) {
	var c models.Content
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("slug = ? OR token = ? OR CAST(id AS TEXT) = ?", ref, ref, ref).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormContentRepository) ListPublished(ctx context.Context, contentType *models.ContentType, page, perPage int) ([]models.Content, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Content{}).
		Where("is_published = ?", true)
	if contentType != nil {
		q = q.Where("type = ?", *contentType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contents []models.Content
	err := q.Order("published_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (r *GormContentRepository) Create(ctx context.Context, content *models.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *GormContentRepository) Update(ctx context.Context, content *models.Content) error {
	return r.db.WithContext(ctx).Save(content).Error
}

func (r *GormContentRepository) SetPublished(ctx context.Context, id uint, published bool) (*models.Content, error) {
	var updated *models.Content
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Content
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrContentNotFound
			}
			return err
		}

		c.IsPublished = published
		if published && c.PublishedAt == nil {
			now := time.Now().UTC()
			c.PublishedAt = &now
		}

		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		updated = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *GormContentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Content{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrContentNotFound
	}
	return nil
}
