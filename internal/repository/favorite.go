package repository

import (
	"context"
	"errors"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	// Add rejects a duplicate (user, experience) pair with
	// models.ErrFavoriteExists.
	Add(ctx context.Context, favorite *models.Favorite) error
	Remove(ctx context.Context, userID, experienceID uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.Favorite, error)
	UpdateAlerts(ctx context.Context, userID, experienceID uint, priceDrop, newDates bool) (*models.Favorite, error)
	// UsersWatching returns ids of users subscribed to price-drop alerts
	// for the experience.
	UsersWatching(ctx context.Context, experienceID uint) ([]uint, error)
}

type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

func (r *GormFavoriteRepository) Add(ctx context.Context, favorite *models.Favorite) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Favorite{}).
			Where("user_id = ? AND experience_id = ?", favorite.UserID, favorite.ExperienceID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrFavoriteExists
		}
		return tx.Create(favorite).Error
	})
}

func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, experienceID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFavoriteNotFound
	}
	return nil
}

func (r *GormFavoriteRepository) ListByUser(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := r.db.WithContext(ctx).
		Preload("Experience").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *GormFavoriteRepository) UpdateAlerts(ctx context.Context, userID, experienceID uint, priceDrop, newDates bool) (*models.Favorite, error) {
	var f models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrFavoriteNotFound
	}
	if err != nil {
		return nil, err
	}

	f.NotifyOnPriceDrop = priceDrop
	f.NotifyOnNewDates = newDates
	if err := r.db.WithContext(ctx).Save(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *GormFavoriteRepository) UsersWatching(ctx context.Context, experienceID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("experience_id = ? AND notify_on_price_drop = ?", experienceID, true).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
