package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func TestOpenDisputeMovesBookingToDisputed(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	dispute, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonServiceNotProvided,
		Description: "nobody showed up at the meeting point",
		Evidence: []models.DisputeEvidence{
			{Type: "image", URL: "https://cdn.example.com/evidence/1.jpg", Description: "empty meeting point"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusOpen, dispute.Status)
	assert.NotEmpty(t, dispute.Evidence)

	refreshed, err := env.bookingRepo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDisputed, refreshed.Status)
}

func TestGetDisputeHiddenFromOutsiders(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	outsider := env.createUser(t, models.UserTypeTraveler)
	admin := env.createUser(t, models.UserTypeAdmin)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	opened, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonQualityIssue,
		Description: "half the stops were skipped",
	})
	require.NoError(t, err)

	_, err = env.disputes.GetByID(context.Background(), outsider.ID, false, opened.ID)
	assert.ErrorIs(t, err, models.ErrDisputeNotFound)

	for _, actorID := range []uint{traveler.ID, provider.ID} {
		got, err := env.disputes.GetByID(context.Background(), actorID, false, opened.ID)
		require.NoError(t, err)
		assert.Equal(t, opened.ID, got.ID)
	}

	got, err := env.disputes.GetByID(context.Background(), admin.ID, true, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, got.ID)
}

func TestOpenSecondDisputeFails(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	_, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonQualityIssue,
		Description: "tour cut short",
	})
	require.NoError(t, err)

	_, err = env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: provider.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonPaymentIssue,
		Description: "traveler never paid the balance",
	})
	assert.ErrorIs(t, err, models.ErrDisputeExists)
}

func TestOpenDisputeRejectsUnknownReason(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	_, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID,
		BookingID:   booking.ID,
		Reason:      "vibes",
		Description: "bad vibes",
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestOpenDisputeRequiresParty(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	stranger := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	_, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: stranger.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonOther,
		Description: "not my booking",
	})
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestOpenDisputeOnTerminalBookingFails(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusCancelled)

	_, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonCancellationDispute,
		Description: "cancelled without refund",
	})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestResolveDisputeWithFullRefund(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	admin := env.createUser(t, models.UserTypeAdmin)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	dispute, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonServiceNotProvided,
		Description: "no show",
	})
	require.NoError(t, err)

	resolved, err := env.disputes.Resolve(context.Background(), service.ResolveDisputeCommand{
		AdminID:      admin.ID,
		DisputeID:    dispute.ID,
		Type:         models.ResolutionTypeFullRefund,
		Notes:        "provider confirmed the no-show",
		RefundAmount: booking.TotalAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedByID)
	assert.Equal(t, admin.ID, *resolved.ResolvedByID)

	refreshed, err := env.bookingRepo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusRefunded, refreshed.Status)
}

func TestResolveDisputeTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	admin := env.createUser(t, models.UserTypeAdmin)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)
	booking := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	dispute, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID,
		BookingID:   booking.ID,
		Reason:      models.DisputeReasonOther,
		Description: "misleading listing",
	})
	require.NoError(t, err)

	_, err = env.disputes.Resolve(context.Background(), service.ResolveDisputeCommand{
		AdminID:   admin.ID,
		DisputeID: dispute.ID,
		Type:      models.ResolutionTypeNoRefund,
		Notes:     "listing matches the photos",
	})
	require.NoError(t, err)

	_, err = env.disputes.Resolve(context.Background(), service.ResolveDisputeCommand{
		AdminID:   admin.ID,
		DisputeID: dispute.ID,
		Type:      models.ResolutionTypeFullRefund,
	})
	assert.ErrorIs(t, err, models.ErrDisputeResolved)
}

func TestListOpenDisputesOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	provider := env.createUser(t, models.UserTypeProvider)
	traveler := env.createUser(t, models.UserTypeTraveler)
	experience := env.createExperience(t, provider.ID, models.ExperienceStatusPublished)

	first := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)
	second := env.createBooking(t, traveler.ID, experience, models.BookingStatusConfirmed)

	d1, err := env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID, BookingID: first.ID,
		Reason: models.DisputeReasonQualityIssue, Description: "one",
	})
	require.NoError(t, err)
	_, err = env.disputes.Open(context.Background(), service.OpenDisputeCommand{
		InitiatorID: traveler.ID, BookingID: second.ID,
		Reason: models.DisputeReasonQualityIssue, Description: "two",
	})
	require.NoError(t, err)

	items, total, err := env.disputes.ListOpen(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, d1.ID, items[0].ID)
}
