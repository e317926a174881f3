package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

type StartConversationRequest struct {
	ProviderID   uint   `json:"providerId" binding:"required"`
	ExperienceID *uint  `json:"experienceId"`
	BookingID    *uint  `json:"bookingId"`
	Message      string `json:"message" binding:"required"`
}

func StartConversation(conversations *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		conversation, err := conversations.Start(c.Request.Context(), service.StartConversationCommand{
			TravelerID:   c.GetUint("userId"),
			ProviderID:   req.ProviderID,
			ExperienceID: req.ExperienceID,
			BookingID:    req.BookingID,
			FirstMessage: req.Message,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"conversation": conversation})
	}
}

func SendMessage(conversations *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Body          string `json:"body" binding:"required"`
			AttachmentURL string `json:"attachmentUrl"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		message, err := conversations.SendMessage(c.Request.Context(), service.SendMessageCommand{
			SenderID:        c.GetUint("userId"),
			ConversationRef: c.Param("id"),
			Body:            req.Body,
			AttachmentURL:   req.AttachmentURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"message": message})
	}
}

func MarkConversationRead(conversations *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := conversations.MarkRead(c.Request.Context(), c.GetUint("userId"), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Conversation marked as read"})
	}
}

func GetConversations(conversations *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := conversations.List(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"conversations": items})
	}
}

func GetMessages(conversations *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		items, total, err := conversations.Messages(c.Request.Context(), c.GetUint("userId"), c.Param("id"), page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}
