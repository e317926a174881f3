package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

type PaymentFilters struct {
	Status     *models.PaymentStatus
	TravelerID *uint
	ProviderID *uint
	DateFrom   *time.Time
	DateTo     *time.Time
}

type PaymentStatistics struct {
	Total           int64   `json:"total"`
	TotalVolume     float64 `json:"totalVolume"`
	TotalRefunded   float64 `json:"totalRefunded"`
	TotalCommission float64 `json:"totalCommission"`
}

// CommissionEntry is one provider's platform-fee line for the period.
type CommissionEntry struct {
	ProviderID uint    `json:"providerId"`
	Volume     float64 `json:"volume"`
	Commission float64 `json:"commission"`
}

type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	GetAll(ctx context.Context, filters PaymentFilters, page, perPage int) ([]models.Payment, int64, error)
	Create(ctx context.Context, payment *models.Payment) error
	// Refund records the gateway reversal. The amount check against the
	// remaining balance is the gateway's concern, not validated here.
	Refund(ctx context.Context, id uint, amount float64, reason string) (*models.Payment, error)
	// Transfer marks the provider payout for a completed payment.
	Transfer(ctx context.Context, id uint) (*models.Payment, error)
	GetCommissions(ctx context.Context, from, to time.Time) ([]CommissionEntry, error)
	GetDisputed(ctx context.Context, page, perPage int) ([]models.Payment, int64, error)
	GetStatistics(ctx context.Context) (*PaymentStatistics, error)
}

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	err := r.db.WithContext(ctx).Preload("Booking").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormPaymentRepository) GetAll(ctx context.Context, filters PaymentFilters, page, perPage int) ([]models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{})

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.TravelerID != nil {
		q = q.Where("traveler_id = ?", *filters.TravelerID)
	}
	if filters.ProviderID != nil {
		q = q.Where("provider_id = ?", *filters.ProviderID)
	}
	if filters.DateFrom != nil {
		q = q.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) Refund(ctx context.Context, id uint, amount float64, reason string) (*models.Payment, error) {
	var refunded *models.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrPaymentNotFound
			}
			return err
		}

		if p.Status != models.PaymentStatusCompleted && p.Status != models.PaymentStatusPartiallyRefunded {
			return fmt.Errorf("%w: status is %s", models.ErrPaymentFinal, p.Status)
		}

		now := time.Now().UTC()
		p.RefundedAmount += amount
		p.RefundReason = reason
		p.RefundedAt = &now
		if p.RefundedAmount >= p.Amount {
			p.Status = models.PaymentStatusRefunded
		} else {
			p.Status = models.PaymentStatusPartiallyRefunded
		}

		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		refunded = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refunded, nil
}

func (r *GormPaymentRepository) Transfer(ctx context.Context, id uint) (*models.Payment, error) {
	var transferred *models.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrPaymentNotFound
			}
			return err
		}

		if p.Status != models.PaymentStatusCompleted {
			return fmt.Errorf("%w: status is %s", models.ErrPaymentFinal, p.Status)
		}
		now := time.Now().UTC()
		p.TransferredAt = &now

		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		transferred = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transferred, nil
}

func (r *GormPaymentRepository) GetCommissions(ctx context.Context, from, to time.Time) ([]CommissionEntry, error) {
	var entries []CommissionEntry
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("provider_id, SUM(amount) as volume, SUM(amount * commission_rate) as commission").
		Where("status = ? AND created_at >= ? AND created_at <= ?", models.PaymentStatusCompleted, from, to).
		Group("provider_id").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormPaymentRepository) GetDisputed(ctx context.Context, page, perPage int) ([]models.Payment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{}).
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.status = ?", models.BookingStatusDisputed)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := q.Order("payments.created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *GormPaymentRepository) GetStatistics(ctx context.Context) (*PaymentStatistics, error) {
	stats := &PaymentStatistics{}

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status IN ?", []models.PaymentStatus{models.PaymentStatusCompleted, models.PaymentStatusPartiallyRefunded}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalVolume).Error
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(refunded_amount), 0)").
		Scan(&stats.TotalRefunded).Error
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount * commission_rate), 0)").
		Scan(&stats.TotalCommission).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
