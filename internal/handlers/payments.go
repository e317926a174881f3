package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

func GetPayment(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		payment, err := payments.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"payment": payment})
	}
}

func GetAllPayments(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		items, total, err := payments.List(c.Request.Context(), service.PaymentsQuery{
			Filters: paymentFiltersFromQuery(c),
			Page:    page,
			PerPage: perPage,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func RefundPayment(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Amount float64 `json:"amount" binding:"required"`
			Reason string  `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		payment, err := payments.Refund(c.Request.Context(), service.RefundPaymentCommand{
			AdminID:   c.GetUint("userId"),
			PaymentID: id,
			Amount:    req.Amount,
			Reason:    req.Reason,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"payment": payment})
	}
}

// TransferPayment releases a completed payment to its provider, net of
// commission.
func TransferPayment(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		payment, err := payments.Transfer(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"payment": payment})
	}
}

func GetCommissions(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		from := now.AddDate(0, -1, 0)
		to := now
		if v := c.Query("from"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				from = t
			}
		}
		if v := c.Query("to"); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				to = t
			}
		}

		entries, err := payments.GetCommissions(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"commissions": entries, "from": from, "to": to})
	}
}

func GetDisputedPayments(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		items, total, err := payments.ListDisputed(c.Request.Context(), page, perPage)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, paginated(items, page, perPage, total))
	}
}

func GetPaymentStatistics(payments *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := payments.GetStatistics(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"statistics": stats})
	}
}

func paymentFiltersFromQuery(c *gin.Context) repository.PaymentFilters {
	var filters repository.PaymentFilters
	if v := c.Query("status"); v != "" {
		status := models.PaymentStatus(v)
		filters.Status = &status
	}
	if v := c.Query("providerId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			providerID := uint(id)
			filters.ProviderID = &providerID
		}
	}
	if v := c.Query("travelerId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			travelerID := uint(id)
			filters.TravelerID = &travelerID
		}
	}
	if v := c.Query("dateFrom"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateFrom = &t
		}
	}
	if v := c.Query("dateTo"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateTo = &t
		}
	}
	return filters
}
