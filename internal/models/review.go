package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
	ReviewStatusReported ReviewStatus = "reported"
)

// IsEditable reports whether the owner may still change the review.
// Rejected and reported reviews are locked.
func (s ReviewStatus) IsEditable() bool {
	return s == ReviewStatusPending || s == ReviewStatusApproved
}

type Review struct {
	gorm.Model
	BookingID       uint           `gorm:"not null;index:idx_reviews_booking_traveler,unique" json:"bookingId"`
	Booking         Booking        `json:"booking"`
	TravelerID      uint           `gorm:"not null;index:idx_reviews_booking_traveler,unique" json:"travelerId"`
	Traveler        User           `json:"traveler"`
	ExperienceID    uint           `gorm:"not null;index" json:"experienceId"`
	ProviderID      uint           `gorm:"not null;index" json:"providerId"`
	Rating          int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title           string         `json:"title,omitempty"`
	Comment         string         `gorm:"type:text" json:"comment"`
	Images          datatypes.JSON `json:"images,omitempty"`
	Status          ReviewStatus   `gorm:"not null;default:'pending';index" json:"status"`
	IsVerified      bool           `gorm:"default:false" json:"isVerified"` // Verified stay
	HelpfulCount    int            `gorm:"default:0" json:"helpfulCount"`
	ModerationNote  string         `json:"moderationNote,omitempty"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	ReportedReason  string         `json:"reportedReason,omitempty"`
	ProviderReply   string         `gorm:"type:text" json:"providerReply,omitempty"`
	ProviderReplyAt *time.Time     `json:"providerReplyAt,omitempty"`
}
