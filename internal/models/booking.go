package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusDisputed  BookingStatus = "disputed"
	BookingStatusRefunded  BookingStatus = "refunded"
)

// bookingTransitions is the booking state machine. A status missing from the
// map is terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled, BookingStatusDisputed},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled, BookingStatusDisputed},
	BookingStatusDisputed:  {BookingStatusRefunded},
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition. This is the single source of truth: services check it before
// mutating and repositories re-check it inside the update transaction.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the booking is still in play.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// CanBeCancelled reports whether the booking may still be cancelled.
// Only active bookings are cancellable.
func (s BookingStatus) CanBeCancelled() bool {
	return s.IsActive()
}

// IsTerminal reports whether no transition leads away from s.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProcessing        PaymentStatus = "processing"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentStatusCancelled         PaymentStatus = "cancelled"
)

// IsFinal reports whether the payment reached a state money can no longer
// move out of on its own.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

type Booking struct {
	gorm.Model
	Token            string            `gorm:"column:token;uniqueIndex;not null" json:"token"`
	ExperienceID     uint              `gorm:"not null;index" json:"experienceId"`
	Experience       Experience        `json:"experience"`
	TravelerID       uint              `gorm:"not null;index" json:"travelerId"`
	Traveler         User              `json:"traveler"`
	ProviderID       uint              `gorm:"not null;index" json:"providerId"`
	Status           BookingStatus     `gorm:"not null;default:'pending';index" json:"status"`
	BookingDate      time.Time         `gorm:"not null" json:"bookingDate"`
	BookingTime      string            `json:"bookingTime,omitempty"`
	Participants     int               `gorm:"not null;default:1" json:"participants"`
	TotalAmount      float64           `gorm:"not null" json:"totalAmount"`
	Currency         string            `gorm:"default:'MAD'" json:"currency"`
	PaymentStatus    PaymentStatus     `gorm:"not null;default:'pending';index" json:"paymentStatus"`
	PaymentMethod    string            `json:"paymentMethod,omitempty"`
	PaymentReference string            `json:"paymentReference,omitempty"`
	PaidAt           *time.Time        `json:"paidAt,omitempty"`
	SpecialRequests  string            `gorm:"type:text" json:"specialRequests,omitempty"`
	CancelReason     string            `gorm:"column:cancel_reason" json:"cancelReason,omitempty"`
	CancelledAt      *time.Time        `json:"cancelledAt,omitempty"`
	CancelledBy      *uint             `json:"cancelledBy,omitempty"`
	ConfirmedAt      *time.Time        `json:"confirmedAt,omitempty"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
	Metadata         datatypes.JSONMap `json:"metadata,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Token == "" {
		b.Token = uuid.NewString()
	}
	return nil
}
