// Package handlers is the HTTP boundary: gin closures that bind input,
// call a service and translate domain error kinds into statuses.
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
)

var notFoundErrors = []error{
	models.ErrUserNotFound,
	models.ErrExperienceNotFound,
	models.ErrBookingNotFound,
	models.ErrPaymentNotFound,
	models.ErrReviewNotFound,
	models.ErrDisputeNotFound,
	models.ErrConversationNotFound,
	models.ErrFavoriteNotFound,
	models.ErrCertificationNotFound,
	models.ErrContentNotFound,
	models.ErrNotificationNotFound,
}

var conflictErrors = []error{
	models.ErrReviewExists,
	models.ErrFavoriteExists,
	models.ErrDisputeExists,
	models.ErrEmailTaken,
}

var invalidStateErrors = []error{
	models.ErrBookingNotCancellable,
	models.ErrInvalidTransition,
	models.ErrBookingNotEligible,
	models.ErrReviewLocked,
	models.ErrPaymentFinal,
	models.ErrDisputeResolved,
	models.ErrExperienceNotBookable,
}

// respondError maps a domain error to its HTTP status. Unknown errors are
// reported as a plain 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			c.JSON(404, gin.H{"error": err.Error()})
			return
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			c.JSON(409, gin.H{"error": err.Error()})
			return
		}
	}
	for _, target := range invalidStateErrors {
		if errors.Is(err, target) {
			c.JSON(422, gin.H{"error": err.Error()})
			return
		}
	}
	if errors.Is(err, models.ErrValidation) {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	c.JSON(500, gin.H{"error": "Internal server error"})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (page, perPage int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func paginated(items any, page, perPage int, total int64) gin.H {
	return gin.H{
		"items": items,
		"pagination": gin.H{
			"page":       page,
			"limit":      perPage,
			"total":      total,
			"totalPages": (total + int64(perPage) - 1) / int64(perPage),
		},
	}
}
