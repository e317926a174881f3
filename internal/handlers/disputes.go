package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

type OpenDisputeRequest struct {
	BookingID   uint   `json:"bookingId" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description" binding:"required"`
	Evidence    []struct {
		Type        string `json:"type"`
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"evidence"`
}

func OpenDispute(disputes *service.DisputeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OpenDisputeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		evidence := make([]models.DisputeEvidence, 0, len(req.Evidence))
		for _, e := range req.Evidence {
			evidence = append(evidence, models.DisputeEvidence{
				Type:        e.Type,
				URL:         e.URL,
				Description: e.Description,
			})
		}

		dispute, err := disputes.Open(c.Request.Context(), service.OpenDisputeCommand{
			InitiatorID: c.GetUint("userId"),
			BookingID:   req.BookingID,
			Reason:      models.DisputeReason(req.Reason),
			Description: req.Description,
			Evidence:    evidence,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"dispute": dispute})
	}
}

func GetDispute(disputes *service.DisputeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		isAdmin := c.GetString("userType") == string(models.UserTypeAdmin)
		dispute, err := disputes.GetByID(c.Request.Context(), c.GetUint("userId"), isAdmin, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"dispute": dispute})
	}
}

func GetOpenDisputes(disputes *service.DisputeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		items, total, err := disputes.ListOpen(c.Request.Context(), page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func ResolveDispute(disputes *service.DisputeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Type         string  `json:"type" binding:"required,oneof=full_refund partial_refund no_refund"`
			Notes        string  `json:"notes"`
			RefundAmount float64 `json:"refundAmount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		dispute, err := disputes.Resolve(c.Request.Context(), service.ResolveDisputeCommand{
			AdminID:      c.GetUint("userId"),
			DisputeID:    id,
			Type:         models.ResolutionType(req.Type),
			Notes:        req.Notes,
			RefundAmount: req.RefundAmount,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"dispute": dispute})
	}
}

func UploadDisputeEvidence() gin.HandlerFunc {
	return func(c *gin.Context) {
		uploadTo(c, "evidence", "file")
	}
}
