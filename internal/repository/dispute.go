package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

// DisputeResolution carries the admin's decision into Resolve.
type DisputeResolution struct {
	ResolvedByID uint
	Type         models.ResolutionType
	Notes        string
	RefundAmount float64
}

type DisputeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.BookingDispute, error)
	// Create opens a dispute and moves the booking to disputed in the same
	// transaction. A booking with an unresolved dispute is rejected.
	Create(ctx context.Context, dispute *models.BookingDispute) error
	GetOpen(ctx context.Context, page, perPage int) ([]models.BookingDispute, int64, error)
	// Resolve closes the dispute; a refund decision moves the booking from
	// disputed to refunded and reverses its payment.
	Resolve(ctx context.Context, id uint, resolution DisputeResolution) (*models.BookingDispute, error)
}

type GormDisputeRepository struct {
	db *gorm.DB
}

func NewGormDisputeRepository(db *gorm.DB) *GormDisputeRepository {
	return &GormDisputeRepository{db: db}
}

func (r *GormDisputeRepository) FindByID(ctx context.Context, id uint) (*models.BookingDispute, error) {
	var d models.BookingDispute
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Preload("Initiator").
		First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrDisputeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDisputeRepository) Create(ctx context.Context, dispute *models.BookingDispute) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockedBooking(tx, dispute.BookingID)
		if err != nil {
			return err
		}

		// One active dispute per booking.
		var active int64
		err = tx.Model(&models.BookingDispute{}).
			Where("booking_id = ? AND status <> ?", b.ID, models.DisputeStatusResolved).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return models.ErrDisputeExists
		}

		if !b.Status.CanTransitionTo(models.BookingStatusDisputed) {
			return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, b.Status, models.BookingStatusDisputed)
		}

		dispute.Status = models.DisputeStatusOpen
		if err := tx.Create(dispute).Error; err != nil {
			return err
		}

		b.Status = models.BookingStatusDisputed
		return tx.Save(b).Error
	})
}

func (r *GormDisputeRepository) GetOpen(ctx context.Context, page, perPage int) ([]models.BookingDispute, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.BookingDispute{}).
		Where("status <> ?", models.DisputeStatusResolved)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var disputes []models.BookingDispute
	err := q.Preload("Booking").
		Preload("Initiator").
		Order("created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&disputes).Error
	if err != nil {
		return nil, 0, err
	}
	return disputes, total, nil
}

func (r *GormDisputeRepository) Resolve(ctx context.Context, id uint, resolution DisputeResolution) (*models.BookingDispute, error) {
	var resolved *models.BookingDispute
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.BookingDispute
		if err := tx.First(&d, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrDisputeNotFound
			}
			return err
		}

		if d.Status.IsResolved() {
			return models.ErrDisputeResolved
		}

		now := time.Now().UTC()
		d.Status = models.DisputeStatusResolved
		d.ResolvedByID = &resolution.ResolvedByID
		d.ResolvedAt = &now
		d.ResolutionType = resolution.Type
		d.ResolutionNotes = resolution.Notes
		d.RefundAmount = resolution.RefundAmount

		if err := tx.Save(&d).Error; err != nil {
			return err
		}

		if resolution.Type == models.ResolutionTypeFullRefund || resolution.Type == models.ResolutionTypePartialRefund {
			b, err := lockedBooking(tx, d.BookingID)
			if err != nil {
				return err
			}
			if b.Status.CanTransitionTo(models.BookingStatusRefunded) {
				b.Status = models.BookingStatusRefunded
				b.PaymentStatus = models.PaymentStatusRefunded
				if err := tx.Save(b).Error; err != nil {
					return err
				}
			}
			err = tx.Model(&models.Payment{}).
				Where("booking_id = ? AND status = ?", d.BookingID, models.PaymentStatusCompleted).
				Updates(map[string]any{
					"status":          models.PaymentStatusRefunded,
					"refunded_amount": resolution.RefundAmount,
					"refund_reason":   resolution.Notes,
					"refunded_at":     now,
				}).Error
			if err != nil {
				return err
			}
		}

		resolved = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
