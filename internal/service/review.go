package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"gorm.io/datatypes"
)

type CreateReviewCommand struct {
	TravelerID uint
	BookingID  uint
	Rating     int
	Title      string
	Comment    string
	Images     []string
}

type UpdateReviewCommand struct {
	TravelerID uint
	ReviewID   uint
	Rating     *int
	Title      *string
	Comment    *string
	Images     []string
}

type ModerateReviewCommand struct {
	AdminID  uint
	ReviewID uint
	Status   models.ReviewStatus
	Note     string
}

type ReviewService struct {
	reviews       repository.ReviewRepository
	bookings      repository.BookingRepository
	notifications *NotificationService
}

func NewReviewService(
	reviews repository.ReviewRepository,
	bookings repository.BookingRepository,
	notifications *NotificationService,
) *ReviewService {
	return &ReviewService{
		reviews:       reviews,
		bookings:      bookings,
		notifications: notifications,
	}
}

// Create posts a traveler review against their own confirmed or completed
// booking. The rating bound is checked before anything reaches persistence,
// and a (booking, traveler) pair reviews at most once.
func (s *ReviewService) Create(ctx context.Context, cmd CreateReviewCommand) (*models.Review, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}

	booking, err := s.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.TravelerID != cmd.TravelerID {
		return nil, models.ErrBookingNotFound
	}

	if _, err := s.reviews.FindByBookingAndTraveler(ctx, booking.ID, cmd.TravelerID); err == nil {
		return nil, models.ErrReviewExists
	} else if !errors.Is(err, models.ErrReviewNotFound) {
		return nil, err
	}

	if booking.Status != models.BookingStatusConfirmed && booking.Status != models.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: booking status is %s", models.ErrBookingNotEligible, booking.Status)
	}

	review := &models.Review{
		BookingID:    booking.ID,
		TravelerID:   cmd.TravelerID,
		ExperienceID: booking.ExperienceID,
		ProviderID:   booking.ProviderID,
		Rating:       cmd.Rating,
		Title:        cmd.Title,
		Comment:      cmd.Comment,
		Status:       models.ReviewStatusPending,
		IsVerified:   booking.Status == models.BookingStatusCompleted,
	}
	if len(cmd.Images) > 0 {
		raw, err := json.Marshal(cmd.Images)
		if err != nil {
			return nil, fmt.Errorf("%w: images are not serializable", models.ErrValidation)
		}
		review.Images = datatypes.JSON(raw)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.notifications.Notify(ctx, booking.ProviderID, models.NotificationReviewReceived,
		"New review",
		fmt.Sprintf("A traveler rated your experience %d/5", cmd.Rating),
		map[string]any{"reviewId": review.ID, "experienceId": review.ExperienceID})

	return review, nil
}

// Update edits the owner's review while it is still editable. Editing an
// approved review sends it back to moderation: status resets to pending and
// the approval timestamp is cleared. The reset is idempotent.
func (s *ReviewService) Update(ctx context.Context, cmd UpdateReviewCommand) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, cmd.ReviewID)
	if err != nil {
		return nil, err
	}
	if review.TravelerID != cmd.TravelerID {
		return nil, models.ErrReviewNotFound
	}
	if !review.Status.IsEditable() {
		return nil, fmt.Errorf("%w: status is %s", models.ErrReviewLocked, review.Status)
	}

	if cmd.Rating != nil {
		if *cmd.Rating < 1 || *cmd.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
		}
		review.Rating = *cmd.Rating
	}
	if cmd.Title != nil {
		review.Title = *cmd.Title
	}
	if cmd.Comment != nil {
		review.Comment = *cmd.Comment
	}
	if cmd.Images != nil {
		raw, err := json.Marshal(cmd.Images)
		if err != nil {
			return nil, fmt.Errorf("%w: images are not serializable", models.ErrValidation)
		}
		review.Images = datatypes.JSON(raw)
	}

	review.Status = models.ReviewStatusPending
	review.ApprovedAt = nil

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

// Delete removes the owner's review.
func (s *ReviewService) Delete(ctx context.Context, travelerID, reviewID uint) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.TravelerID != travelerID {
		return models.ErrReviewNotFound
	}
	return s.reviews.Delete(ctx, review.ID)
}

// Moderate is the admin path: approve, reject or keep a report.
func (s *ReviewService) Moderate(ctx context.Context, cmd ModerateReviewCommand) (*models.Review, error) {
	if _, err := s.reviews.FindByID(ctx, cmd.ReviewID); err != nil {
		return nil, err
	}
	return s.reviews.Moderate(ctx, cmd.ReviewID, cmd.Status, cmd.Note)
}

func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID uint) error {
	return s.reviews.IncrementHelpfulCount(ctx, reviewID)
}

func (s *ReviewService) ListByExperience(ctx context.Context, experienceID uint, page, perPage int) ([]models.Review, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.reviews.FindByExperienceID(ctx, experienceID, page, perPage)
}

func (s *ReviewService) ListByTraveler(ctx context.Context, travelerID uint) ([]models.Review, error) {
	return s.reviews.FindByTravelerID(ctx, travelerID)
}

func (s *ReviewService) ListReported(ctx context.Context, page, perPage int) ([]models.Review, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.reviews.GetReported(ctx, page, perPage)
}

func (s *ReviewService) GetStatistics(ctx context.Context) (*repository.ReviewStatistics, error) {
	return s.reviews.GetStatistics(ctx)
}
