package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"gorm.io/datatypes"
)

type OpenDisputeCommand struct {
	InitiatorID uint
	BookingID   uint
	Reason      models.DisputeReason
	Description string
	Evidence    []models.DisputeEvidence
}

type ResolveDisputeCommand struct {
	AdminID      uint
	DisputeID    uint
	Type         models.ResolutionType
	Notes        string
	RefundAmount float64
}

type DisputeService struct {
	disputes      repository.DisputeRepository
	bookings      repository.BookingRepository
	notifications *NotificationService
}

func NewDisputeService(
	disputes repository.DisputeRepository,
	bookings repository.BookingRepository,
	notifications *NotificationService,
) *DisputeService {
	return &DisputeService{
		disputes:      disputes,
		bookings:      bookings,
		notifications: notifications,
	}
}

// Open contests a booking. Only a party to the booking may open a dispute,
// and a booking carries at most one active dispute at a time.
func (s *DisputeService) Open(ctx context.Context, cmd OpenDisputeCommand) (*models.BookingDispute, error) {
	if !cmd.Reason.IsValid() {
		return nil, fmt.Errorf("%w: unknown dispute reason %q", models.ErrValidation, cmd.Reason)
	}

	booking, err := s.bookings.FindByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.TravelerID != cmd.InitiatorID && booking.ProviderID != cmd.InitiatorID {
		return nil, models.ErrBookingNotFound
	}

	dispute := &models.BookingDispute{
		BookingID:   booking.ID,
		InitiatorID: cmd.InitiatorID,
		Reason:      cmd.Reason,
		Description: cmd.Description,
	}
	if len(cmd.Evidence) > 0 {
		raw, err := marshalEvidence(cmd.Evidence)
		if err != nil {
			return nil, err
		}
		dispute.Evidence = raw
	}

	if err := s.disputes.Create(ctx, dispute); err != nil {
		return nil, err
	}

	counterparty := booking.ProviderID
	if cmd.InitiatorID == booking.ProviderID {
		counterparty = booking.TravelerID
	}
	s.notifications.Notify(ctx, counterparty, models.NotificationDisputeOpened,
		"Booking disputed",
		fmt.Sprintf("Booking %s is now under dispute", booking.Token),
		map[string]any{"bookingId": booking.ID, "disputeId": dispute.ID})

	return dispute, nil
}

// ListOpen returns unresolved disputes for the admin queue, oldest first.
func (s *DisputeService) ListOpen(ctx context.Context, page, perPage int) ([]models.BookingDispute, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.disputes.GetOpen(ctx, page, perPage)
}

func (s *DisputeService) GetByID(ctx context.Context, actorID uint, isAdmin bool, id uint) (*models.BookingDispute, error) {
	dispute, err := s.disputes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && dispute.InitiatorID != actorID &&
		dispute.Booking.TravelerID != actorID && dispute.Booking.ProviderID != actorID {
		return nil, models.ErrDisputeNotFound
	}
	return dispute, nil
}

// Resolve closes a dispute with the admin's decision. A refund resolution
// also moves the booking to refunded and reverses its payment.
func (s *DisputeService) Resolve(ctx context.Context, cmd ResolveDisputeCommand) (*models.BookingDispute, error) {
	dispute, err := s.disputes.FindByID(ctx, cmd.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status.IsResolved() {
		return nil, models.ErrDisputeResolved
	}

	resolved, err := s.disputes.Resolve(ctx, dispute.ID, repository.DisputeResolution{
		ResolvedByID: cmd.AdminID,
		Type:         cmd.Type,
		Notes:        cmd.Notes,
		RefundAmount: cmd.RefundAmount,
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, dispute.InitiatorID, models.NotificationDisputeResolved,
		"Dispute resolved",
		fmt.Sprintf("Your dispute was resolved: %s", cmd.Type),
		map[string]any{"disputeId": resolved.ID, "refundAmount": cmd.RefundAmount})

	return resolved, nil
}

func marshalEvidence(evidence []models.DisputeEvidence) (datatypes.JSON, error) {
	raw, err := json.Marshal(evidence)
	if err != nil {
		return nil, fmt.Errorf("%w: evidence is not serializable", models.ErrValidation)
	}
	return datatypes.JSON(raw), nil
}
