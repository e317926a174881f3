package handlers

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/service"
	"github.com/siyaha-app/siyaha-backend/internal/services"
)

type CreateExperienceRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	Category        string  `json:"category" binding:"required"`
	Region          string  `json:"region"`
	City            string  `json:"city"`
	Price           float64 `json:"price" binding:"required"`
	Currency        string  `json:"currency"`
	DurationMinutes int     `json:"durationMinutes"`
	MaxParticipants int     `json:"maxParticipants"`
	CoverImageURL   string  `json:"coverImageUrl"`
}

func CreateExperience(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateExperienceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		experience, err := experiences.Create(c.Request.Context(), service.CreateExperienceCommand{
			ProviderID:      c.GetUint("userId"),
			Title:           req.Title,
			Description:     req.Description,
			Category:        req.Category,
			Region:          req.Region,
			City:            req.City,
			Price:           req.Price,
			Currency:        req.Currency,
			DurationMinutes: req.DurationMinutes,
			MaxParticipants: req.MaxParticipants,
			CoverImageURL:   req.CoverImageURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"experience": experience})
	}
}

func UpdateExperience(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Title           *string  `json:"title"`
			Description     *string  `json:"description"`
			Price           *float64 `json:"price"`
			MaxParticipants *int     `json:"maxParticipants"`
			CoverImageURL   *string  `json:"coverImageUrl"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		experience, err := experiences.Update(c.Request.Context(), service.UpdateExperienceCommand{
			ProviderID:      c.GetUint("userId"),
			ExperienceID:    id,
			Title:           req.Title,
			Description:     req.Description,
			Price:           req.Price,
			MaxParticipants: req.MaxParticipants,
			CoverImageURL:   req.CoverImageURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"experience": experience})
	}
}

func SubmitExperienceForReview(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		experience, err := experiences.SubmitForReview(c.Request.Context(), c.GetUint("userId"), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"experience": experience})
	}
}

func ModerateExperience(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Approve bool `json:"approve"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		experience, err := experiences.Moderate(c.Request.Context(), id, req.Approve)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"experience": experience})
	}
}

func ArchiveExperience(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		if err := experiences.Archive(c.Request.Context(), c.GetUint("userId"), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Experience archived"})
	}
}

// GetExperience resolves by numeric id or UUID token and bumps the daily
// view counter. View counting is best effort.
func GetExperience(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("id")

		var experience *models.Experience
		var err error
		if id, parseErr := strconv.ParseUint(ref, 10, 32); parseErr == nil {
			experience, err = experiences.GetByID(c.Request.Context(), uint(id))
		} else {
			experience, err = experiences.GetByToken(c.Request.Context(), ref)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		if err := services.IncrementExperienceViews(c.Request.Context(), experience.ID); err != nil {
			log.Printf("failed to count view for experience %d: %v", experience.ID, err)
		}
		views, _ := services.GetExperienceViews(c.Request.Context(), experience.ID)

		c.JSON(200, gin.H{"experience": experience, "viewsToday": views})
	}
}

func ListExperiences(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)

		filters := experienceFiltersFromQuery(c)
		// Public listing only ever serves published experiences.
		published := models.ExperienceStatusPublished
		filters.Status = &published

		items, total, err := experiences.List(c.Request.Context(), filters, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func GetMyExperiences(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		providerID := c.GetUint("userId")

		filters := experienceFiltersFromQuery(c)
		filters.ProviderID = &providerID

		items, total, err := experiences.List(c.Request.Context(), filters, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func GetPendingExperiences(experiences *service.ExperienceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		pending := models.ExperienceStatusPendingReview
		items, total, err := experiences.List(c.Request.Context(), repository.ExperienceFilters{Status: &pending}, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func UploadExperienceImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		uploadTo(c, "experiences", "image")
	}
}

// GetRecommendedExperiences serves the preference-ranked feed, cached per
// user.
func GetRecommendedExperiences(discovery *service.DiscoveryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit < 1 || limit > 50 {
			limit = 10
		}
		ranked, err := discovery.RecommendedFor(c.Request.Context(), c.GetUint("userId"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"experiences": ranked})
	}
}

func experienceFiltersFromQuery(c *gin.Context) repository.ExperienceFilters {
	var filters repository.ExperienceFilters
	if v := c.Query("category"); v != "" {
		filters.Category = &v
	}
	if v := c.Query("region"); v != "" {
		filters.Region = &v
	}
	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filters.MaxPrice = &p
		}
	}
	return filters
}
