package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func TestCreateBookingStartsPending(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	booking, err := env.bookings.Create(context.Background(), service.CreateBookingCommand{
		TravelerID:   traveler.ID,
		ExperienceID: experience.ID,
		BookingDate:  time.Now().AddDate(0, 0, 14),
		Participants: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, experience.Price*3, booking.TotalAmount)
	assert.Equal(t, provider.ID, booking.ProviderID)
	assert.NotEmpty(t, booking.Token)

	// The provider gets notified about the new request.
	count, err := env.notifications.CountUnread(context.Background(), provider.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateBookingRejectsUnpublishedExperience(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusDraft)

	_, err := env.bookings.Create(context.Background(), service.CreateBookingCommand{
		TravelerID:   traveler.ID,
		ExperienceID: experience.ID,
		BookingDate:  time.Now().AddDate(0, 0, 14),
		Participants: 2,
	})
	assert.ErrorIs(t, err, models.ErrExperienceNotBookable)
}

func TestCreateBookingValidatesParticipants(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	_, err := env.bookings.Create(context.Background(), service.CreateBookingCommand{
		TravelerID:   traveler.ID,
		ExperienceID: experience.ID,
		BookingDate:  time.Now().AddDate(0, 0, 14),
		Participants: 0,
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = env.bookings.Create(context.Background(), service.CreateBookingCommand{
		TravelerID:   traveler.ID,
		ExperienceID: experience.ID,
		BookingDate:  time.Now().AddDate(0, 0, 14),
		Participants: experience.MaxParticipants + 1,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCancelPendingBookingRecordsReason(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)

	cancelled, err := env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   traveler.ID,
		BookingID: booking.ID,
		Reason:    "change of plans",
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, "change of plans", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, traveler.ID, *cancelled.CancelledBy)
}

func TestCancelConfirmedBooking(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	cancelled, err := env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   traveler.ID,
		BookingID: booking.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
}

func TestCancelCompletedBookingFails(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusCompleted)

	_, err := env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   traveler.ID,
		BookingID: booking.ID,
	})
	assert.ErrorIs(t, err, models.ErrBookingNotCancellable)
}

func TestCancelTwiceFailsSecondTime(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)

	_, err := env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   traveler.ID,
		BookingID: booking.ID,
	})
	require.NoError(t, err)

	_, err = env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   traveler.ID,
		BookingID: booking.ID,
	})
	assert.ErrorIs(t, err, models.ErrBookingNotCancellable)
}

func TestCancelByStrangerLooksLikeMissingBooking(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	stranger := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)

	_, err := env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   stranger.ID,
		BookingID: booking.ID,
	})
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestCancelAsAdminOverridesOwnership(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	admin := env.createUser(t, models.UserTypeAdmin)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	cancelled, err := env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   admin.ID,
		BookingID: booking.ID,
		Reason:    "provider account suspended",
		IsAdmin:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, admin.ID, *cancelled.CancelledBy)
}

func TestCancelReversesCompletedPayment(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)
	require.NoError(t, env.db.Model(booking).Update("payment_status", models.PaymentStatusCompleted).Error)
	payment := env.createPayment(t, booking, models.PaymentStatusCompleted)

	cancelled, err := env.bookings.Cancel(context.Background(), service.CancelBookingCommand{
		ActorID:   traveler.ID,
		BookingID: booking.ID,
		Reason:    "weather",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)

	refreshed, err := env.paymentRepo.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refreshed.Status)
	assert.Equal(t, payment.Amount, refreshed.RefundedAmount)
	assert.NotNil(t, refreshed.RefundedAt)
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)

	confirmed, err := env.bookings.UpdateStatus(context.Background(), service.UpdateBookingStatusCommand{
		ActorID:   provider.ID,
		BookingID: booking.ID,
		Status:    models.BookingStatusConfirmed,
	})
	require.NoError(t, err)
	assert.NotNil(t, confirmed.ConfirmedAt)

	completed, err := env.bookings.UpdateStatus(context.Background(), service.UpdateBookingStatusCommand{
		ActorID:   provider.ID,
		BookingID: booking.ID,
		Status:    models.BookingStatusCompleted,
	})
	require.NoError(t, err)
	assert.NotNil(t, completed.CompletedAt)

	// Completed is terminal.
	_, err = env.bookings.UpdateStatus(context.Background(), service.UpdateBookingStatusCommand{
		ActorID:   provider.ID,
		BookingID: booking.ID,
		Status:    models.BookingStatusConfirmed,
	})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUpdateStatusRejectsSkippedStates(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)

	_, err := env.bookings.UpdateStatus(context.Background(), service.UpdateBookingStatusCommand{
		ActorID:   provider.ID,
		BookingID: booking.ID,
		Status:    models.BookingStatusCompleted,
	})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestUpdateStatusByNonProviderLooksLikeMissingBooking(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	stranger := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)

	for _, actorID := range []uint{stranger.ID, traveler.ID} {
		_, err := env.bookings.UpdateStatus(context.Background(), service.UpdateBookingStatusCommand{
			ActorID:   actorID,
			BookingID: booking.ID,
			Status:    models.BookingStatusConfirmed,
		})
		assert.ErrorIs(t, err, models.ErrBookingNotFound)
	}

	fresh, err := env.bookingRepo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, fresh.Status)
}

func TestUpdateStatusAsAdminOverridesOwnership(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	admin := env.createUser(t, models.UserTypeAdmin)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)

	confirmed, err := env.bookings.UpdateStatus(context.Background(), service.UpdateBookingStatusCommand{
		ActorID:   admin.ID,
		BookingID: booking.ID,
		Status:    models.BookingStatusConfirmed,
		IsAdmin:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)
}

func TestListBookingsFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	env.createBooking(t, traveler.ID, experience, models.BookingStatusPending)
	env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)
	env.createBooking(t, traveler.ID, experience, models.BookingStatusCancelled)

	pending := models.BookingStatusPending
	items, total, err := env.bookings.List(context.Background(), service.BookingsQuery{
		Filters: repository.BookingFilters{Status: &pending, TravelerID: &traveler.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, models.BookingStatusPending, items[0].Status)

	// No status filter returns everything for the traveler.
	_, total, err = env.bookings.List(context.Background(), service.BookingsQuery{
		Filters: repository.BookingFilters{TravelerID: &traveler.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
