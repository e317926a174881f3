package service

import (
	"context"
	"fmt"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

type CreateExperienceCommand struct {
	ProviderID      uint
	Title           string
	Description     string
	Category        string
	Region          string
	City            string
	Price           float64
	Currency        string
	DurationMinutes int
	MaxParticipants int
	CoverImageURL   string
}

type UpdateExperienceCommand struct {
	ProviderID      uint
	ExperienceID    uint
	Title           *string
	Description     *string
	Price           *float64
	MaxParticipants *int
	CoverImageURL   *string
}

type ExperienceService struct {
	experiences   repository.ExperienceRepository
	favorites     repository.FavoriteRepository
	notifications *NotificationService
}

func NewExperienceService(
	experiences repository.ExperienceRepository,
	favorites repository.FavoriteRepository,
	notifications *NotificationService,
) *ExperienceService {
	return &ExperienceService{
		experiences:   experiences,
		favorites:     favorites,
		notifications: notifications,
	}
}

func (s *ExperienceService) Create(ctx context.Context, cmd CreateExperienceCommand) (*models.Experience, error) {
	if cmd.Title == "" || cmd.Category == "" {
		return nil, fmt.Errorf("%w: title and category are required", models.ErrValidation)
	}
	if cmd.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", models.ErrValidation)
	}

	experience := &models.Experience{
		ProviderID:      cmd.ProviderID,
		Title:           cmd.Title,
		Description:     cmd.Description,
		Category:        cmd.Category,
		Region:          cmd.Region,
		City:            cmd.City,
		Price:           cmd.Price,
		Currency:        cmd.Currency,
		DurationMinutes: cmd.DurationMinutes,
		MaxParticipants: cmd.MaxParticipants,
		CoverImageURL:   cmd.CoverImageURL,
		Status:          models.ExperienceStatusDraft,
	}
	if err := s.experiences.Create(ctx, experience); err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return experience, nil
}

// Update edits the provider's own experience. A price drop alerts watching
// travelers.
func (s *ExperienceService) Update(ctx context.Context, cmd UpdateExperienceCommand) (*models.Experience, error) {
	experience, err := s.experiences.FindByID(ctx, cmd.ExperienceID)
	if err != nil {
		return nil, err
	}
	if experience.ProviderID != cmd.ProviderID {
		return nil, models.ErrExperienceNotFound
	}

	oldPrice := experience.Price
	if cmd.Title != nil {
		experience.Title = *cmd.Title
	}
	if cmd.Description != nil {
		experience.Description = *cmd.Description
	}
	if cmd.Price != nil {
		if *cmd.Price < 0 {
			return nil, fmt.Errorf("%w: price must be non-negative", models.ErrValidation)
		}
		experience.Price = *cmd.Price
	}
	if cmd.MaxParticipants != nil {
		experience.MaxParticipants = *cmd.MaxParticipants
	}
	if cmd.CoverImageURL != nil {
		experience.CoverImageURL = *cmd.CoverImageURL
	}

	if err := s.experiences.Update(ctx, experience); err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}

	if experience.Price < oldPrice {
		watchers, err := s.favorites.UsersWatching(ctx, experience.ID)
		if err == nil {
			for _, userID := range watchers {
				s.notifications.Notify(ctx, userID, models.NotificationPriceDrop,
					"Price drop",
					fmt.Sprintf("%s now costs %.2f %s", experience.Title, experience.Price, experience.Currency),
					map[string]any{"experienceId": experience.ID})
			}
		}
	}
	return experience, nil
}

// SubmitForReview asks moderation to publish a draft.
func (s *ExperienceService) SubmitForReview(ctx context.Context, providerID, experienceID uint) (*models.Experience, error) {
	experience, err := s.experiences.FindByID(ctx, experienceID)
	if err != nil {
		return nil, err
	}
	if experience.ProviderID != providerID {
		return nil, models.ErrExperienceNotFound
	}
	if experience.Status != models.ExperienceStatusDraft {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, experience.Status, models.ExperienceStatusPendingReview)
	}
	return s.experiences.UpdateStatus(ctx, experienceID, models.ExperienceStatusPendingReview)
}

// Moderate is the admin decision on a submitted experience.
func (s *ExperienceService) Moderate(ctx context.Context, experienceID uint, approve bool) (*models.Experience, error) {
	experience, err := s.experiences.FindByID(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	if approve {
		if !experience.Status.CanBePublished() {
			return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, experience.Status, models.ExperienceStatusPublished)
		}
		return s.experiences.UpdateStatus(ctx, experienceID, models.ExperienceStatusPublished)
	}
	return s.experiences.UpdateStatus(ctx, experienceID, models.ExperienceStatusSuspended)
}

func (s *ExperienceService) Archive(ctx context.Context, providerID, experienceID uint) error {
	experience, err := s.experiences.FindByID(ctx, experienceID)
	if err != nil {
		return err
	}
	if experience.ProviderID != providerID {
		return models.ErrExperienceNotFound
	}
	return s.experiences.Archive(ctx, experienceID)
}

func (s *ExperienceService) GetByID(ctx context.Context, id uint) (*models.Experience, error) {
	return s.experiences.FindByID(ctx, id)
}

func (s *ExperienceService) GetByToken(ctx context.Context, token string) (*models.Experience, error) {
	return s.experiences.FindByToken(ctx, token)
}

func (s *ExperienceService) List(ctx context.Context, filters repository.ExperienceFilters, page, perPage int) ([]models.Experience, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.experiences.GetAll(ctx, filters, page, perPage)
}
