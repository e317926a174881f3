package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "booking_created"
	NotificationBookingConfirmed NotificationType = "booking_confirmed"
	NotificationBookingCancelled NotificationType = "booking_cancelled"
	NotificationBookingCompleted NotificationType = "booking_completed"
	NotificationDisputeOpened    NotificationType = "dispute_opened"
	NotificationDisputeResolved  NotificationType = "dispute_resolved"
	NotificationReviewReceived   NotificationType = "review_received"
	NotificationMessageReceived  NotificationType = "message_received"
	NotificationPaymentRefunded  NotificationType = "payment_refunded"
	NotificationPriceDrop        NotificationType = "price_drop"
)

type Notification struct {
	gorm.Model
	UserID  uint              `gorm:"not null;index" json:"userId"`
	Type    NotificationType  `gorm:"not null" json:"type"`
	Title   string            `gorm:"not null" json:"title"`
	Body    string            `gorm:"type:text" json:"body"`
	Data    datatypes.JSONMap `json:"data,omitempty"`
	ReadAt  *time.Time        `json:"readAt,omitempty"`
	IsAdmin bool              `gorm:"default:false" json:"isAdmin"`
}

// IsRead reports whether the user has already seen the notification.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
