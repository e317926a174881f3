package repository

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Conversation, error)
	// FindByRef accepts either the numeric id or the external UUID token.
	FindByRef(ctx context.Context, ref string) (*models.Conversation, error)
	FindBetween(ctx context.Context, travelerID, providerID uint, experienceID *uint) (*models.Conversation, error)
	Create(ctx context.Context, conversation *models.Conversation) error
	ListByUser(ctx context.Context, userID uint) ([]models.Conversation, error)
	// AppendMessage stores the message, bumps the recipient's unread count
	// and refreshes the conversation preview in one transaction.
	AppendMessage(ctx context.Context, message *models.Message) (*models.Conversation, error)
	// MarkRead zeroes the reader's unread count and stamps their unread
	// messages.
	MarkRead(ctx context.Context, conversationID, readerID uint) error
	ListMessages(ctx context.Context, conversationID uint, page, perPage int) ([]models.Message, int64, error)
}

type GormConversationRepository struct {
	db *gorm.DB
}

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) FindByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Traveler").
		Preload("Provider").
		First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormConversationRepository) FindByRef(ctx context.Context, ref string) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Traveler").
		Preload("Provider").
		Where("token = ? OR CAST(id AS TEXT) = ?", ref, ref).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormConversationRepository) FindBetween(ctx context.Context, travelerID, providerID uint, experienceID *uint) (*models.Conversation, error) {
	q := r.db.WithContext(ctx).
		Where("traveler_id = ? AND provider_id = ?", travelerID, providerID)
	if experienceID != nil {
		q = q.Where("experience_id = ?", *experienceID)
	}

	var c models.Conversation
	err := q.First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *GormConversationRepository) ListByUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Traveler").
		Preload("Provider").
		Where("traveler_id = ? OR provider_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *GormConversationRepository) AppendMessage(ctx context.Context, message *models.Message) (*models.Conversation, error) {
	var conv *models.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Conversation
		if err := tx.First(&c, message.ConversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrConversationNotFound
			}
			return err
		}

		if err := tx.Create(message).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		c.LastMessageAt = &now
		c.LastMessagePreview = preview(message.Body)
		if message.SenderID == c.TravelerID {
			c.ProviderUnreadCount++
		} else {
			c.TravelerUnreadCount++
		}

		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		conv = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *GormConversationRepository) MarkRead(ctx context.Context, conversationID, readerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Conversation
		if err := tx.First(&c, conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrConversationNotFound
			}
			return err
		}

		switch readerID {
		case c.TravelerID:
			c.TravelerUnreadCount = 0
		case c.ProviderID:
			c.ProviderUnreadCount = 0
		default:
			return models.ErrConversationNotFound
		}

		now := time.Now().UTC()
		err := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
			Update("read_at", now).Error
		if err != nil {
			return err
		}
		return tx.Save(&c).Error
	})
}

func (r *GormConversationRepository) ListMessages(ctx context.Context, conversationID uint, page, perPage int) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	err := q.Preload("Sender").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// preview truncates on a rune boundary so the stored snippet stays valid UTF-8.
func preview(body string) string {
	const max = 120
	if len(body) <= max {
		return body
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}
