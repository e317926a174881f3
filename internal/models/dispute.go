package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DisputeReason string

const (
	DisputeReasonServiceNotProvided  DisputeReason = "service_not_provided"
	DisputeReasonQualityIssue        DisputeReason = "quality_issue"
	DisputeReasonCancellationDispute DisputeReason = "cancellation_dispute"
	DisputeReasonPaymentIssue        DisputeReason = "payment_issue"
	DisputeReasonOther               DisputeReason = "other"
)

func (r DisputeReason) IsValid() bool {
	switch r {
	case DisputeReasonServiceNotProvided, DisputeReasonQualityIssue,
		DisputeReasonCancellationDispute, DisputeReasonPaymentIssue, DisputeReasonOther:
		return true
	}
	return false
}

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusInReview DisputeStatus = "in_review"
	DisputeStatusResolved DisputeStatus = "resolved"
)

// IsResolved reports whether the dispute no longer counts as active.
func (s DisputeStatus) IsResolved() bool {
	return s == DisputeStatusResolved
}

type ResolutionType string

const (
	ResolutionTypeFullRefund    ResolutionType = "full_refund"
	ResolutionTypePartialRefund ResolutionType = "partial_refund"
	ResolutionTypeNoRefund      ResolutionType = "no_refund"
)

// DisputeEvidence is one supporting item attached to a dispute.
type DisputeEvidence struct {
	Type        string `json:"type"` // image, document
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type BookingDispute struct {
	gorm.Model
	BookingID       uint           `gorm:"not null;index" json:"bookingId"`
	Booking         Booking        `json:"booking"`
	InitiatorID     uint           `gorm:"not null;index" json:"initiatorId"`
	Initiator       User           `json:"initiator"`
	Reason          DisputeReason  `gorm:"not null" json:"reason"`
	Description     string         `gorm:"type:text" json:"description"`
	Status          DisputeStatus  `gorm:"not null;default:'open';index" json:"status"`
	ResolvedByID    *uint          `json:"resolvedById,omitempty"`
	ResolvedAt      *time.Time     `json:"resolvedAt,omitempty"`
	ResolutionNotes string         `gorm:"type:text" json:"resolutionNotes,omitempty"`
	ResolutionType  ResolutionType `json:"resolutionType,omitempty"`
	RefundAmount    float64        `gorm:"default:0" json:"refundAmount"`
	Evidence        datatypes.JSON `json:"evidence,omitempty"`
}
