package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func GetNotifications(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		unreadOnly := c.Query("unread") == "true"

		items, total, err := notifications.List(c.Request.Context(), c.GetUint("userId"), unreadOnly, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func MarkNotificationRead(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		if err := notifications.MarkRead(c.Request.Context(), c.GetUint("userId"), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Notification marked as read"})
	}
}

func MarkAllNotificationsRead(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := notifications.MarkAllRead(c.Request.Context(), c.GetUint("userId")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "All notifications marked as read"})
	}
}

func GetUnreadNotificationCount(notifications *service.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := notifications.CountUnread(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"unread": count})
	}
}
