package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	gorm.Model
	Token          string        `gorm:"column:token;uniqueIndex;not null" json:"token"`
	BookingID      uint          `gorm:"not null;index" json:"bookingId"`
	Booking        Booking       `json:"booking"`
	TravelerID     uint          `gorm:"not null;index" json:"travelerId"`
	ProviderID     uint          `gorm:"not null;index" json:"providerId"`
	Method         string        `json:"method"`
	GatewayRef     string        `gorm:"column:gateway_ref" json:"gatewayRef,omitempty"`
	Amount         float64       `gorm:"not null" json:"amount"`
	Currency       string        `gorm:"default:'MAD'" json:"currency"`
	CommissionRate float64       `gorm:"default:0.15" json:"commissionRate"`
	Status         PaymentStatus `gorm:"not null;default:'pending';index" json:"status"`
	RefundedAmount float64       `gorm:"default:0" json:"refundedAmount"`
	RefundReason   string        `json:"refundReason,omitempty"`
	RefundedAt     *time.Time    `json:"refundedAt,omitempty"`
	TransferredAt  *time.Time    `json:"transferredAt,omitempty"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.Token == "" {
		p.Token = uuid.NewString()
	}
	return nil
}

// Commission is the platform's share of the payment amount.
func (p *Payment) Commission() float64 {
	return p.Amount * p.CommissionRate
}
