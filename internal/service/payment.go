package service

import (
	"context"
	"fmt"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

type RefundPaymentCommand struct {
	AdminID   uint
	PaymentID uint
	Amount    float64
	Reason    string
}

type PaymentsQuery struct {
	Filters repository.PaymentFilters
	Page    int
	PerPage int
}

// PaymentService is a thin pass-through over the payment repository: the
// gateway owns the money semantics, this layer only records outcomes.
type PaymentService struct {
	payments      repository.PaymentRepository
	notifications *NotificationService
}

func NewPaymentService(payments repository.PaymentRepository, notifications *NotificationService) *PaymentService {
	return &PaymentService{payments: payments, notifications: notifications}
}

func (s *PaymentService) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	return s.payments.FindByID(ctx, id)
}

func (s *PaymentService) List(ctx context.Context, q PaymentsQuery) ([]models.Payment, int64, error) {
	page, perPage := normalizePage(q.Page, q.PerPage)
	return s.payments.GetAll(ctx, q.Filters, page, perPage)
}

// Refund records a gateway refund against the payment. No balance check is
// performed here beyond the repository's own state guard.
func (s *PaymentService) Refund(ctx context.Context, cmd RefundPaymentCommand) (*models.Payment, error) {
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("%w: refund amount must be positive", models.ErrValidation)
	}

	payment, err := s.payments.FindByID(ctx, cmd.PaymentID)
	if err != nil {
		return nil, err
	}

	refunded, err := s.payments.Refund(ctx, payment.ID, cmd.Amount, cmd.Reason)
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, refunded.TravelerID, models.NotificationPaymentRefunded,
		"Payment refunded",
		fmt.Sprintf("%.2f %s has been refunded", cmd.Amount, refunded.Currency),
		map[string]any{"paymentId": refunded.ID, "amount": cmd.Amount})

	return refunded, nil
}

// Transfer marks the provider payout for a completed payment.
func (s *PaymentService) Transfer(ctx context.Context, paymentID uint) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return s.payments.Transfer(ctx, payment.ID)
}

func (s *PaymentService) GetCommissions(ctx context.Context, from, to time.Time) ([]repository.CommissionEntry, error) {
	return s.payments.GetCommissions(ctx, from, to)
}

func (s *PaymentService) ListDisputed(ctx context.Context, page, perPage int) ([]models.Payment, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.payments.GetDisputed(ctx, page, perPage)
}

func (s *PaymentService) GetStatistics(ctx context.Context) (*repository.PaymentStatistics, error) {
	return s.payments.GetStatistics(ctx)
}
