// Package service contains the application's commands and queries: one
// immutable command struct per use case and one service method handling it.
// Handlers fetch, validate, then delegate to the repositories; the acting
// user is always an explicit command field, never ambient state.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

type CreateBookingCommand struct {
	TravelerID      uint
	ExperienceID    uint
	BookingDate     time.Time
	BookingTime     string
	Participants    int
	SpecialRequests string
	PaymentMethod   string
	Metadata        map[string]any
}

type CancelBookingCommand struct {
	ActorID   uint
	BookingID uint
	Reason    string
	// IsAdmin lets moderation cancel bookings the actor does not own.
	IsAdmin bool
}

type UpdateBookingStatusCommand struct {
	ActorID   uint
	BookingID uint
	Status    models.BookingStatus
	Reason    string
	// IsAdmin lets moderation drive bookings the actor does not provide.
	IsAdmin bool
}

type BookingsQuery struct {
	Filters repository.BookingFilters
	Page    int
	PerPage int
}

type BookingService struct {
	bookings      repository.BookingRepository
	experiences   repository.ExperienceRepository
	users         repository.UserRepository
	notifications *NotificationService
	// mailer sends transactional email; nil disables it (tests).
	mailer Mailer
}

// Mailer is the transactional email surface the booking lifecycle needs.
type Mailer interface {
	SendConfirmation(traveler *models.User, booking *models.Booking, experienceTitle string) error
	SendCancellation(recipient *models.User, booking *models.Booking, reason string) error
}

func NewBookingService(
	bookings repository.BookingRepository,
	experiences repository.ExperienceRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	mailer Mailer,
) *BookingService {
	return &BookingService{
		bookings:      bookings,
		experiences:   experiences,
		users:         users,
		notifications: notifications,
		mailer:        mailer,
	}
}

// Create opens a new booking in pending status against a published
// experience.
func (s *BookingService) Create(ctx context.Context, cmd CreateBookingCommand) (*models.Booking, error) {
	if cmd.Participants < 1 {
		return nil, fmt.Errorf("%w: participants must be at least 1", models.ErrValidation)
	}

	experience, err := s.experiences.FindByID(ctx, cmd.ExperienceID)
	if err != nil {
		return nil, err
	}
	if !experience.Status.IsActive() {
		return nil, fmt.Errorf("%w: status is %s", models.ErrExperienceNotBookable, experience.Status)
	}
	if experience.MaxParticipants > 0 && cmd.Participants > experience.MaxParticipants {
		return nil, fmt.Errorf("%w: experience takes at most %d participants", models.ErrValidation, experience.MaxParticipants)
	}

	booking := &models.Booking{
		ExperienceID:    experience.ID,
		TravelerID:      cmd.TravelerID,
		ProviderID:      experience.ProviderID,
		Status:          models.BookingStatusPending,
		BookingDate:     cmd.BookingDate,
		BookingTime:     cmd.BookingTime,
		Participants:    cmd.Participants,
		TotalAmount:     experience.Price * float64(cmd.Participants),
		Currency:        experience.Currency,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   cmd.PaymentMethod,
		SpecialRequests: cmd.SpecialRequests,
		Metadata:        cmd.Metadata,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.notifications.Notify(ctx, experience.ProviderID, models.NotificationBookingCreated,
		"New booking request",
		fmt.Sprintf("%s has been booked for %s", experience.Title, booking.BookingDate.Format("2006-01-02")),
		map[string]any{"bookingId": booking.ID, "bookingToken": booking.Token})

	return booking, nil
}

// Cancel ends an active booking. Cancellability is validated twice: here
// as a pure predicate and again inside the repository's locked transaction.
func (s *BookingService) Cancel(ctx context.Context, cmd CancelBookingCommand) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	if !cmd.IsAdmin && booking.TravelerID != cmd.ActorID && booking.ProviderID != cmd.ActorID {
		return nil, models.ErrBookingNotFound
	}
	if !booking.Status.CanBeCancelled() {
		return nil, fmt.Errorf("%w: status is %s", models.ErrBookingNotCancellable, booking.Status)
	}

	actorID := cmd.ActorID
	cancelled, err := s.bookings.Cancel(ctx, booking.ID, cmd.Reason, &actorID)
	if err != nil {
		return nil, err
	}

	recipient := cancelled.ProviderID
	if cmd.ActorID == cancelled.ProviderID {
		recipient = cancelled.TravelerID
	}
	s.notifications.Notify(ctx, recipient, models.NotificationBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("Booking %s was cancelled", cancelled.Token),
		map[string]any{"bookingId": cancelled.ID, "reason": cmd.Reason})
	s.emailCancellation(ctx, recipient, cancelled, cmd.Reason)

	return cancelled, nil
}

// UpdateStatus moves a booking along the lifecycle. The transition table is
// enforced at the repository boundary inside the update transaction.
func (s *BookingService) UpdateStatus(ctx context.Context, cmd UpdateBookingStatusCommand) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if !cmd.IsAdmin && booking.ProviderID != cmd.ActorID {
		return nil, models.ErrBookingNotFound
	}

	updated, err := s.bookings.UpdateStatus(ctx, booking.ID, cmd.Status, cmd.Reason)
	if err != nil {
		return nil, err
	}

	switch updated.Status {
	case models.BookingStatusConfirmed:
		s.notifications.Notify(ctx, updated.TravelerID, models.NotificationBookingConfirmed,
			"Booking confirmed",
			fmt.Sprintf("Your booking %s is confirmed", updated.Token),
			map[string]any{"bookingId": updated.ID})
		s.emailConfirmation(ctx, updated)
	case models.BookingStatusCompleted:
		s.notifications.Notify(ctx, updated.TravelerID, models.NotificationBookingCompleted,
			"Booking completed",
			"Thanks for travelling with us, leave a review!",
			map[string]any{"bookingId": updated.ID})
	}

	return updated, nil
}

// Email failures never fail the command that triggered them.
func (s *BookingService) emailConfirmation(ctx context.Context, booking *models.Booking) {
	if s.mailer == nil {
		return
	}
	traveler, err := s.users.FindByID(ctx, booking.TravelerID)
	if err != nil {
		return
	}
	title := ""
	if experience, err := s.experiences.FindByID(ctx, booking.ExperienceID); err == nil {
		title = experience.Title
	}
	if err := s.mailer.SendConfirmation(traveler, booking, title); err != nil {
		log.Printf("confirmation email for booking %s failed: %v", booking.Token, err)
	}
}

func (s *BookingService) emailCancellation(ctx context.Context, recipientID uint, booking *models.Booking, reason string) {
	if s.mailer == nil {
		return
	}
	recipient, err := s.users.FindByID(ctx, recipientID)
	if err != nil {
		return
	}
	if err := s.mailer.SendCancellation(recipient, booking, reason); err != nil {
		log.Printf("cancellation email for booking %s failed: %v", booking.Token, err)
	}
}

func (s *BookingService) GetByID(ctx context.Context, actorID uint, isAdmin bool, bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.TravelerID != actorID && booking.ProviderID != actorID {
		return nil, models.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) GetByToken(ctx context.Context, actorID uint, isAdmin bool, token string) (*models.Booking, error) {
	booking, err := s.bookings.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.TravelerID != actorID && booking.ProviderID != actorID {
		return nil, models.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, q BookingsQuery) ([]models.Booking, int64, error) {
	page, perPage := normalizePage(q.Page, q.PerPage)
	return s.bookings.GetAll(ctx, q.Filters, page, perPage)
}

func (s *BookingService) GetStatistics(ctx context.Context) (*repository.BookingStatistics, error) {
	return s.bookings.GetStatistics(ctx)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
