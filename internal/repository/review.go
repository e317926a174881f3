package repository

import (
	"context"
	"errors"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

type ReviewFilters struct {
	Status       *models.ReviewStatus
	ExperienceID *uint
	ProviderID   *uint
	MinRating    *int
}

type ReviewStatistics struct {
	Total         int64   `json:"total"`
	Pending       int64   `json:"pending"`
	Reported      int64   `json:"reported"`
	AverageRating float64 `json:"averageRating"`
}

type ReviewRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Review, error)
	FindByBookingAndTraveler(ctx context.Context, bookingID, travelerID uint) (*models.Review, error)
	FindByExperienceID(ctx context.Context, experienceID uint, page, perPage int) ([]models.Review, int64, error)
	FindByTravelerID(ctx context.Context, travelerID uint) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	Moderate(ctx context.Context, id uint, status models.ReviewStatus, note string) (*models.Review, error)
	IncrementHelpfulCount(ctx context.Context, id uint) error
	GetReported(ctx context.Context, page, perPage int) ([]models.Review, int64, error)
	GetStatistics(ctx context.Context) (*ReviewStatistics, error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Traveler").First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) FindByBookingAndTraveler(ctx context.Context, bookingID, travelerID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND traveler_id = ?", bookingID, travelerID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) FindByExperienceID(ctx context.Context, experienceID uint, page, perPage int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("experience_id = ? AND status = ?", experienceID, models.ReviewStatusApproved)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := q.Preload("Traveler").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *GormReviewRepository) FindByTravelerID(ctx context.Context, travelerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("traveler_id = ?", travelerID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return refreshExperienceRating(tx, review.ExperienceID)
	})
}

func (r *GormReviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return refreshExperienceRating(tx, review.ExperienceID)
	})
}

func (r *GormReviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

func (r *GormReviewRepository) Moderate(ctx context.Context, id uint, status models.ReviewStatus, note string) (*models.Review, error) {
	var moderated *models.Review
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrReviewNotFound
			}
			return err
		}

		review.Status = status
		review.ModerationNote = note
		if status == models.ReviewStatusApproved {
			now := tx.NowFunc()
			review.ApprovedAt = &now
		} else {
			review.ApprovedAt = nil
		}

		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		if err := refreshExperienceRating(tx, review.ExperienceID); err != nil {
			return err
		}
		moderated = &review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moderated, nil
}

func (r *GormReviewRepository) IncrementHelpfulCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}

func (r *GormReviewRepository) GetReported(ctx context.Context, page, perPage int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusReported)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := q.Preload("Traveler").
		Order("updated_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *GormReviewRepository) GetStatistics(ctx context.Context) (*ReviewStatistics, error) {
	stats := &ReviewStatistics{}

	if err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusPending).
		Count(&stats.Pending).Error
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusReported).
		Count(&stats.Reported).Error
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(&models.Review{}).
		Where("status = ?", models.ReviewStatusApproved).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AverageRating).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// refreshExperienceRating recomputes the denormalized rating fields on the
// experience from its approved reviews.
func refreshExperienceRating(tx *gorm.DB, experienceID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Review{}).
		Where("experience_id = ? AND status = ?", experienceID, models.ReviewStatusApproved).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Experience{}).
		Where("id = ?", experienceID).
		Updates(map[string]any{
			"average_rating": agg.Avg,
			"review_count":   agg.Count,
		}).Error
}
