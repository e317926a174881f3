package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

type StartConversationCommand struct {
	TravelerID   uint
	ProviderID   uint
	ExperienceID *uint
	BookingID    *uint
	FirstMessage string
}

type SendMessageCommand struct {
	SenderID        uint
	ConversationRef string // numeric id or UUID token
	Body            string
	AttachmentURL   string
}

type ConversationService struct {
	conversations repository.ConversationRepository
	notifications *NotificationService
}

func NewConversationService(conversations repository.ConversationRepository, notifications *NotificationService) *ConversationService {
	return &ConversationService{conversations: conversations, notifications: notifications}
}

// Start opens (or reuses) the conversation between a traveler and a
// provider and posts the opening message.
func (s *ConversationService) Start(ctx context.Context, cmd StartConversationCommand) (*models.Conversation, error) {
	if strings.TrimSpace(cmd.FirstMessage) == "" {
		return nil, fmt.Errorf("%w: message body is empty", models.ErrValidation)
	}

	conversation, err := s.conversations.FindBetween(ctx, cmd.TravelerID, cmd.ProviderID, cmd.ExperienceID)
	if errors.Is(err, models.ErrConversationNotFound) {
		conversation = &models.Conversation{
			TravelerID:   cmd.TravelerID,
			ProviderID:   cmd.ProviderID,
			ExperienceID: cmd.ExperienceID,
			BookingID:    cmd.BookingID,
		}
		if err := s.conversations.Create(ctx, conversation); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	_, err = s.send(ctx, conversation, cmd.TravelerID, cmd.FirstMessage, "")
	if err != nil {
		return nil, err
	}
	return s.conversations.FindByID(ctx, conversation.ID)
}

// SendMessage posts into an existing conversation. Only the two parties may
// write; the recipient's unread count goes up by one.
func (s *ConversationService) SendMessage(ctx context.Context, cmd SendMessageCommand) (*models.Message, error) {
	if strings.TrimSpace(cmd.Body) == "" {
		return nil, fmt.Errorf("%w: message body is empty", models.ErrValidation)
	}

	conversation, err := s.conversations.FindByRef(ctx, cmd.ConversationRef)
	if err != nil {
		return nil, err
	}
	if cmd.SenderID != conversation.TravelerID && cmd.SenderID != conversation.ProviderID {
		return nil, models.ErrConversationNotFound
	}

	return s.send(ctx, conversation, cmd.SenderID, cmd.Body, cmd.AttachmentURL)
}

func (s *ConversationService) send(ctx context.Context, conversation *models.Conversation, senderID uint, body, attachmentURL string) (*models.Message, error) {
	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Body:           body,
		AttachmentURL:  attachmentURL,
	}
	updated, err := s.conversations.AppendMessage(ctx, message)
	if err != nil {
		return nil, err
	}

	recipient := updated.ProviderID
	if senderID == updated.ProviderID {
		recipient = updated.TravelerID
	}
	s.notifications.Notify(ctx, recipient, models.NotificationMessageReceived,
		"New message",
		updated.LastMessagePreview,
		map[string]any{"conversationId": updated.ID, "conversationToken": updated.Token})

	return message, nil
}

// MarkRead zeroes the reader's unread counter for the conversation.
func (s *ConversationService) MarkRead(ctx context.Context, readerID uint, conversationRef string) error {
	conversation, err := s.conversations.FindByRef(ctx, conversationRef)
	if err != nil {
		return err
	}
	if readerID != conversation.TravelerID && readerID != conversation.ProviderID {
		return models.ErrConversationNotFound
	}
	return s.conversations.MarkRead(ctx, conversation.ID, readerID)
}

func (s *ConversationService) List(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID)
}

func (s *ConversationService) Messages(ctx context.Context, userID uint, conversationRef string, page, perPage int) ([]models.Message, int64, error) {
	conversation, err := s.conversations.FindByRef(ctx, conversationRef)
	if err != nil {
		return nil, 0, err
	}
	if userID != conversation.TravelerID && userID != conversation.ProviderID {
		return nil, 0, models.ErrConversationNotFound
	}
	page, perPage = normalizePage(page, perPage)
	return s.conversations.ListMessages(ctx, conversation.ID, page, perPage)
}
