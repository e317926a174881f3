package service

import (
	"context"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

type AddFavoriteCommand struct {
	UserID            uint
	ExperienceID      uint
	NotifyOnPriceDrop bool
	NotifyOnNewDates  bool
}

type FavoriteService struct {
	favorites   repository.FavoriteRepository
	experiences repository.ExperienceRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, experiences repository.ExperienceRepository) *FavoriteService {
	return &FavoriteService{favorites: favorites, experiences: experiences}
}

// Add saves an experience to the user's favorites. A second add for the
// same (user, experience) pair fails with ErrFavoriteExists.
func (s *FavoriteService) Add(ctx context.Context, cmd AddFavoriteCommand) (*models.Favorite, error) {
	experience, err := s.experiences.FindByID(ctx, cmd.ExperienceID)
	if err != nil {
		return nil, err
	}

	favorite := &models.Favorite{
		UserID:            cmd.UserID,
		ExperienceID:      experience.ID,
		NotifyOnPriceDrop: cmd.NotifyOnPriceDrop,
		NotifyOnNewDates:  cmd.NotifyOnNewDates,
	}
	if err := s.favorites.Add(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, experienceID uint) error {
	return s.favorites.Remove(ctx, userID, experienceID)
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}

func (s *FavoriteService) UpdateAlerts(ctx context.Context, userID, experienceID uint, priceDrop, newDates bool) (*models.Favorite, error) {
	return s.favorites.UpdateAlerts(ctx, userID, experienceID, priceDrop, newDates)
}
