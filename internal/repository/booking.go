// Package repository contains one narrow data-access contract per aggregate
// plus its GORM implementation. Services depend on the interfaces only.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingFilters narrows GetAll. A nil field means "no constraint": the
// corresponding WHERE clause is omitted entirely, never compared to a zero
// value.
type BookingFilters struct {
	Status        *models.BookingStatus
	PaymentStatus *models.PaymentStatus
	ExperienceID  *uint
	TravelerID    *uint
	ProviderID    *uint
	DateFrom      *time.Time
	DateTo        *time.Time
}

// BookingStatistics is the admin dashboard aggregate.
type BookingStatistics struct {
	Total        int64                          `json:"total"`
	ByStatus     map[models.BookingStatus]int64 `json:"byStatus"`
	TotalRevenue float64                        `json:"totalRevenue"`
}

type BookingRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	FindByToken(ctx context.Context, token string) (*models.Booking, error)
	GetAll(ctx context.Context, filters BookingFilters, page, perPage int) ([]models.Booking, int64, error)
	Create(ctx context.Context, booking *models.Booking) error
	// Cancel re-checks cancellability inside a locked transaction before
	// mutating, and reverses a paid payment as part of the same transaction.
	Cancel(ctx context.Context, id uint, reason string, cancelledBy *uint) (*models.Booking, error)
	// UpdateStatus enforces the booking transition table inside the
	// transaction; illegal moves return models.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id uint, status models.BookingStatus, reason string) (*models.Booking, error)
	GetStatistics(ctx context.Context) (*BookingStatistics, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Experience").
		Preload("Traveler").
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) FindByToken(ctx context.Context, token string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Experience").
		Preload("Traveler").
		Where("token = ?", token).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) GetAll(ctx context.Context, filters BookingFilters, page, perPage int) ([]models.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.PaymentStatus != nil {
		q = q.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.ExperienceID != nil {
		q = q.Where("experience_id = ?", *filters.ExperienceID)
	}
	if filters.TravelerID != nil {
		q = q.Where("traveler_id = ?", *filters.TravelerID)
	}
	if filters.ProviderID != nil {
		q = q.Where("provider_id = ?", *filters.ProviderID)
	}
	if filters.DateFrom != nil {
		q = q.Where("booking_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("booking_date <= ?", *filters.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	err := q.Preload("Experience").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// lockedBooking loads a booking with a row lock where the dialect supports
// it, so two concurrent cancels cannot both pass the state check.
func lockedBooking(tx *gorm.DB, id uint) (*models.Booking, error) {
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var b models.Booking
	if err := tx.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) Cancel(ctx context.Context, id uint, reason string, cancelledBy *uint) (*models.Booking, error) {
	var cancelled *models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockedBooking(tx, id)
		if err != nil {
			return err
		}

		if !b.Status.CanBeCancelled() {
			return fmt.Errorf("%w: status is %s", models.ErrBookingNotCancellable, b.Status)
		}

		now := time.Now().UTC()
		b.Status = models.BookingStatusCancelled
		b.CancelReason = reason
		b.CancelledAt = &now
		b.CancelledBy = cancelledBy

		// Reverse the payment when money already moved.
		if b.PaymentStatus == models.PaymentStatusCompleted {
			b.PaymentStatus = models.PaymentStatusRefunded
			err := tx.Model(&models.Payment{}).
				Where("booking_id = ? AND status = ?", b.ID, models.PaymentStatusCompleted).
				Updates(map[string]any{
					"status":          models.PaymentStatusRefunded,
					"refund_reason":   reason,
					"refunded_at":     now,
					"refunded_amount": gorm.Expr("amount"),
				}).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Save(b).Error; err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus, reason string) (*models.Booking, error) {
	var updated *models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := lockedBooking(tx, id)
		if err != nil {
			return err
		}

		if !b.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, b.Status, status)
		}

		now := time.Now().UTC()
		b.Status = status
		switch status {
		case models.BookingStatusConfirmed:
			b.ConfirmedAt = &now
		case models.BookingStatusCompleted:
			b.CompletedAt = &now
		case models.BookingStatusCancelled:
			b.CancelReason = reason
			b.CancelledAt = &now
		}

		if err := tx.Save(b).Error; err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *GormBookingRepository) GetStatistics(ctx context.Context) (*BookingStatistics, error) {
	stats := &BookingStatistics{ByStatus: make(map[models.BookingStatus]int64)}

	if err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.BookingStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
	}

	err = r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status IN ?", []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusCompleted}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
