package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

type CreateReviewRequest struct {
	BookingID uint     `json:"bookingId" binding:"required"`
	Rating    int      `json:"rating" binding:"required"`
	Title     string   `json:"title"`
	Comment   string   `json:"comment" binding:"required"`
	Images    []string `json:"images"`
}

func CreateReview(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		review, err := reviews.Create(c.Request.Context(), service.CreateReviewCommand{
			TravelerID: c.GetUint("userId"),
			BookingID:  req.BookingID,
			Rating:     req.Rating,
			Title:      req.Title,
			Comment:    req.Comment,
			Images:     req.Images,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"review": review})
	}
}

func UpdateReview(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Rating  *int     `json:"rating"`
			Title   *string  `json:"title"`
			Comment *string  `json:"comment"`
			Images  []string `json:"images"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		review, err := reviews.Update(c.Request.Context(), service.UpdateReviewCommand{
			TravelerID: c.GetUint("userId"),
			ReviewID:   id,
			Rating:     req.Rating,
			Title:      req.Title,
			Comment:    req.Comment,
			Images:     req.Images,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"review": review})
	}
}

func DeleteReview(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		if err := reviews.Delete(c.Request.Context(), c.GetUint("userId"), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Review deleted"})
	}
}

func UploadReviewImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		uploadTo(c, "reviews", "image")
	}
}

func MarkReviewHelpful(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		if err := reviews.MarkHelpful(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Marked as helpful"})
	}
}

func GetExperienceReviews(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		page, perPage := parsePagination(c)
		items, total, err := reviews.ListByExperience(c.Request.Context(), id, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func GetMyReviews(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := reviews.ListByTraveler(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"reviews": items})
	}
}

func ModerateReview(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status" binding:"required,oneof=approved rejected"`
			Note   string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		review, err := reviews.Moderate(c.Request.Context(), service.ModerateReviewCommand{
			AdminID:  c.GetUint("userId"),
			ReviewID: id,
			Status:   models.ReviewStatus(req.Status),
			Note:     req.Note,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"review": review})
	}
}

func GetReportedReviews(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		items, total, err := reviews.ListReported(c.Request.Context(), page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func GetReviewStatistics(reviews *service.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := reviews.GetStatistics(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"statistics": stats})
	}
}
