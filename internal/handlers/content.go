package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func CreateContent(contents *service.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Type     string `json:"type" binding:"required,oneof=blog heritage"`
			Title    string `json:"title" binding:"required"`
			Excerpt  string `json:"excerpt"`
			Body     string `json:"body" binding:"required"`
			CoverURL string `json:"coverUrl"`
			Region   string `json:"region"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		content, err := contents.Create(c.Request.Context(), service.CreateContentCommand{
			AuthorID: c.GetUint("userId"),
			Type:     models.ContentType(req.Type),
			Title:    req.Title,
			Excerpt:  req.Excerpt,
			Body:     req.Body,
			CoverURL: req.CoverURL,
			Region:   req.Region,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"content": content})
	}
}

func UpdateContent(contents *service.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title    *string `json:"title"`
			Excerpt  *string `json:"excerpt"`
			Body     *string `json:"body"`
			CoverURL *string `json:"coverUrl"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		content, err := contents.Update(c.Request.Context(), service.UpdateContentCommand{
			AuthorID:   c.GetUint("userId"),
			ContentRef: c.Param("ref"),
			Title:      req.Title,
			Excerpt:    req.Excerpt,
			Body:       req.Body,
			CoverURL:   req.CoverURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"content": content})
	}
}

func PublishContent(contents *service.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Published bool `json:"published"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		content, err := contents.Publish(c.Request.Context(), c.Param("ref"), req.Published)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"content": content})
	}
}

func GetContent(contents *service.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := contents.GetByRef(c.Request.Context(), c.Param("ref"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"content": content})
	}
}

func ListContent(contents *service.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)

		var contentType *models.ContentType
		if v := c.Query("type"); v != "" {
			t := models.ContentType(v)
			contentType = &t
		}

		items, total, err := contents.ListPublished(c.Request.Context(), contentType, page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func DeleteContent(contents *service.ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := contents.Delete(c.Request.Context(), c.Param("ref")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"message": "Content deleted"})
	}
}
