package service

import (
	"context"
	"log"

	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
)

// RealtimePusher delivers an event to a connected user, if any. The
// WebSocket hub implements it; a nil pusher is tolerated so tests and
// offline tools can run without one.
type RealtimePusher interface {
	PushToUser(userID uint, event string, data any)
}

type NotificationService struct {
	notifications repository.NotificationRepository
	pusher        RealtimePusher
}

func NewNotificationService(notifications repository.NotificationRepository, pusher RealtimePusher) *NotificationService {
	return &NotificationService{notifications: notifications, pusher: pusher}
}

// Notify persists a notification and pushes it to the user if connected.
// Delivery failures are logged, never propagated: notifications must not
// fail the command that triggered them.
func (s *NotificationService) Notify(ctx context.Context, userID uint, typ models.NotificationType, title, body string, data map[string]any) {
	n := &models.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		log.Printf("failed to persist notification for user %d: %v", userID, err)
		return
	}
	if s.pusher != nil {
		s.pusher.PushToUser(userID, string(typ), n)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, page, perPage int) ([]models.Notification, int64, error) {
	page, perPage = normalizePage(page, perPage)
	return s.notifications.ListByUser(ctx, userID, unreadOnly, page, perPage)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}
