package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExperienceStatus string

const (
	ExperienceStatusDraft         ExperienceStatus = "draft"
	ExperienceStatusPendingReview ExperienceStatus = "pending_review"
	ExperienceStatusPublished     ExperienceStatus = "published"
	ExperienceStatusSuspended     ExperienceStatus = "suspended"
	ExperienceStatusArchived      ExperienceStatus = "archived"
)

// CanBePublished reports whether the experience may move to published.
func (s ExperienceStatus) CanBePublished() bool {
	return s == ExperienceStatusDraft || s == ExperienceStatusPendingReview
}

// IsActive reports whether the experience is visible and bookable.
func (s ExperienceStatus) IsActive() bool {
	return s == ExperienceStatusPublished
}

type Experience struct {
	gorm.Model
	Token           string           `gorm:"column:token;uniqueIndex;not null" json:"token"`
	ProviderID      uint             `gorm:"not null;index" json:"providerId"`
	Provider        User             `json:"provider"`
	Title           string           `gorm:"not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	Category        string           `gorm:"not null;index" json:"category"`
	Region          string           `gorm:"index" json:"region"`
	City            string           `json:"city"`
	Price           float64          `gorm:"not null" json:"price"`
	Currency        string           `gorm:"default:'MAD'" json:"currency"`
	DurationMinutes int              `json:"durationMinutes"`
	MaxParticipants int              `gorm:"default:10" json:"maxParticipants"`
	CoverImageURL   string           `json:"coverImageUrl"`
	Status          ExperienceStatus `gorm:"not null;default:'draft';index" json:"status"`
	AverageRating   float64          `gorm:"default:0" json:"averageRating"`
	ReviewCount     int              `gorm:"default:0" json:"reviewCount"`
	PublishedAt     *time.Time       `json:"publishedAt"`
}

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.Token == "" {
		e.Token = uuid.NewString()
	}
	return nil
}
