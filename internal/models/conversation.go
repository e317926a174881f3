package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	gorm.Model
	Token               string     `gorm:"column:token;uniqueIndex;not null" json:"token"`
	TravelerID          uint       `gorm:"not null;index:idx_conversations_parties" json:"travelerId"`
	Traveler            User       `json:"traveler"`
	ProviderID          uint       `gorm:"not null;index:idx_conversations_parties" json:"providerId"`
	Provider            User       `json:"provider"`
	ExperienceID        *uint      `gorm:"index" json:"experienceId,omitempty"`
	BookingID           *uint      `gorm:"index" json:"bookingId,omitempty"`
	LastMessageAt       *time.Time `json:"lastMessageAt,omitempty"`
	LastMessagePreview  string     `json:"lastMessagePreview,omitempty"`
	TravelerUnreadCount int        `gorm:"default:0" json:"travelerUnreadCount"`
	ProviderUnreadCount int        `gorm:"default:0" json:"providerUnreadCount"`
	IsArchived          bool       `gorm:"default:false" json:"isArchived"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.Token == "" {
		c.Token = uuid.NewString()
	}
	return nil
}

// UnreadCountFor returns the pending message count for one of the two parties.
func (c *Conversation) UnreadCountFor(userID uint) int {
	if userID == c.TravelerID {
		return c.TravelerUnreadCount
	}
	if userID == c.ProviderID {
		return c.ProviderUnreadCount
	}
	return 0
}

type Message struct {
	gorm.Model
	ConversationID uint       `gorm:"not null;index" json:"conversationId"`
	SenderID       uint       `gorm:"not null;index" json:"senderId"`
	Sender         User       `json:"sender"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	AttachmentURL  string     `json:"attachmentUrl,omitempty"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}
