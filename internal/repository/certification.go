package repository

import (
	"context"
	"errors"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

type CertificationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Certification, error)
	Create(ctx context.Context, certification *models.Certification) error
	ListByProvider(ctx context.Context, providerID uint) ([]models.Certification, error)
	ListPending(ctx context.Context, page, perPage int) ([]models.Certification, int64, error)
	Review(ctx context.Context, id, reviewerID uint, status models.CertificationStatus, note string) (*models.Certification, error)
	// ExpireOutdated flips approved certifications past their expiry date.
	ExpireOutdated(ctx context.Context, now time.Time) (int64, error)
}

type GormCertificationRepository struct {
	db *gorm.DB
}

func NewGormCertificationRepository(db *gorm.DB) *GormCertificationRepository {
	return &GormCertificationRepository{db: db}
}

func (r *GormCertificationRepository) FindByID(ctx context.Context, id uint) (*models.Certification, error) {
	var c models.Certification
	err := r.db.WithContext(ctx).Preload("Provider").First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCertificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCertificationRepository) Create(ctx context.Context, certification *models.Certification) error {
	return r.db.WithContext(ctx).Create(certification).Error
}

func (r *GormCertificationRepository) ListByProvider(ctx context.Context, providerID uint) ([]models.Certification, error) {
	var certifications []models.Certification
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&certifications).Error
	if err != nil {
		return nil, err
	}
	return certifications, nil
}

func (r *GormCertificationRepository) ListPending(ctx context.Context, page, perPage int) ([]models.Certification, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Certification{}).
		Where("status = ?", models.CertificationStatusPending)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var certifications []models.Certification
	err := q.Preload("Provider").
		Order("created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&certifications).Error
	if err != nil {
		return nil, 0, err
	}
	return certifications, total, nil
}

func (r *GormCertificationRepository) Review(ctx context.Context, id, reviewerID uint, status models.CertificationStatus, note string) (*models.Certification, error) {
	var reviewed *models.Certification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Certification
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrCertificationNotFound
			}
			return err
		}

		now := time.Now().UTC()
		c.Status = status
		c.ReviewedByID = &reviewerID
		c.ReviewedAt = &now
		c.ReviewNote = note

		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		reviewed = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

func (r *GormCertificationRepository) ExpireOutdated(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Certification{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.CertificationStatusApproved, now).
		Update("status", models.CertificationStatusExpired)
	return result.RowsAffected, result.Error
}
