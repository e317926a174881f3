package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func SubmitCertification(certifications *service.CertificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name        string `json:"name" binding:"required"`
			IssuedBy    string `json:"issuedBy" binding:"required"`
			DocumentURL string `json:"documentUrl" binding:"required"`
			ExpiresAt   string `json:"expiresAt"` // YYYY-MM-DD, optional
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var expiresAt *time.Time
		if req.ExpiresAt != "" {
			t, err := time.Parse("2006-01-02", req.ExpiresAt)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid expiry date, expected YYYY-MM-DD"})
				return
			}
			expiresAt = &t
		}

		certification, err := certifications.Submit(c.Request.Context(), service.SubmitCertificationCommand{
			ProviderID:  c.GetUint("userId"),
			Name:        req.Name,
			IssuedBy:    req.IssuedBy,
			DocumentURL: req.DocumentURL,
			ExpiresAt:   expiresAt,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"certification": certification})
	}
}

func GetMyCertifications(certifications *service.CertificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := certifications.ListByProvider(c.Request.Context(), c.GetUint("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"certifications": items})
	}
}

func GetPendingCertifications(certifications *service.CertificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		items, total, err := certifications.ListPending(c.Request.Context(), page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func ReviewCertification(certifications *service.CertificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Approve bool   `json:"approve"`
			Note    string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		certification, err := certifications.Review(c.Request.Context(), service.ReviewCertificationCommand{
			AdminID:         c.GetUint("userId"),
			CertificationID: id,
			Approve:         req.Approve,
			Note:            req.Note,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"certification": certification})
	}
}

func UploadCertificationDocument() gin.HandlerFunc {
	return func(c *gin.Context) {
		uploadTo(c, "certifications", "document")
	}
}
