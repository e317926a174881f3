package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/models"
	"github.com/siyaha-app/siyaha-backend/internal/repository"
	"github.com/siyaha-app/siyaha-backend/internal/service"
)

type CreateBookingRequest struct {
	ExperienceID    uint           `json:"experienceId" binding:"required"`
	BookingDate     string         `json:"bookingDate" binding:"required"` // YYYY-MM-DD
	BookingTime     string         `json:"bookingTime"`
	Participants    int            `json:"participants" binding:"required"`
	SpecialRequests string         `json:"specialRequests"`
	PaymentMethod   string         `json:"paymentMethod"`
	Metadata        map[string]any `json:"metadata"`
}

func CreateBooking(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking date, expected YYYY-MM-DD"})
			return
		}

		booking, err := bookings.Create(c.Request.Context(), service.CreateBookingCommand{
			TravelerID:      c.GetUint("userId"),
			ExperienceID:    req.ExperienceID,
			BookingDate:     bookingDate,
			BookingTime:     req.BookingTime,
			Participants:    req.Participants,
			SpecialRequests: req.SpecialRequests,
			PaymentMethod:   req.PaymentMethod,
			Metadata:        req.Metadata,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, gin.H{"booking": booking})
	}
}

func GetBooking(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("id")
		actorID := c.GetUint("userId")
		isAdmin := c.GetString("userType") == string(models.UserTypeAdmin)

		if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
			booking, err := bookings.GetByID(c.Request.Context(), actorID, isAdmin, uint(id))
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(200, gin.H{"booking": booking})
			return
		}

		booking, err := bookings.GetByToken(c.Request.Context(), actorID, isAdmin, ref)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"booking": booking})
	}
}

func CancelBooking(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Reason string `json:"reason"`
		}
		// Body is optional for a plain cancellation.
		_ = c.ShouldBindJSON(&req)

		booking, err := bookings.Cancel(c.Request.Context(), service.CancelBookingCommand{
			ActorID:   c.GetUint("userId"),
			BookingID: id,
			Reason:    req.Reason,
			IsAdmin:   c.GetString("userType") == string(models.UserTypeAdmin),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"booking": booking})
	}
}

// UpdateBookingStatus is the provider/admin side of the lifecycle: confirm,
// complete, or reject through the same transition table.
func UpdateBookingStatus(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status" binding:"required"`
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking, err := bookings.UpdateStatus(c.Request.Context(), service.UpdateBookingStatusCommand{
			ActorID:   c.GetUint("userId"),
			BookingID: id,
			Status:    models.BookingStatus(req.Status),
			Reason:    req.Reason,
			IsAdmin:   c.GetString("userType") == string(models.UserTypeAdmin),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"booking": booking})
	}
}

func GetMyBookings(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		filters := bookingFiltersFromQuery(c)

		userID := c.GetUint("userId")
		if c.GetString("userType") == string(models.UserTypeProvider) {
			filters.ProviderID = &userID
		} else {
			filters.TravelerID = &userID
		}

		items, total, err := bookings.List(c.Request.Context(), service.BookingsQuery{
			Filters: filters,
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

func GetAllBookings(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := parsePagination(c)
		items, total, err := bookings.List(c.Request.Context(), service.BookingsQuery{
			Filters: bookingFiltersFromQuery(c),
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

func GetBookingStatistics(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := bookings.GetStatistics(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"statistics": stats})
	}
}

// bookingFiltersFromQuery maps query parameters onto the filter struct.
// Absent parameters stay nil and are skipped by the repository.
func bookingFiltersFromQuery(c *gin.Context) repository.BookingFilters {
	var filters repository.BookingFilters
	if v := c.Query("status"); v != "" {
		status := models.BookingStatus(v)
		filters.Status = &status
	}
	if v := c.Query("paymentStatus"); v != "" {
		status := models.PaymentStatus(v)
		filters.PaymentStatus = &status
	}
	if v := c.Query("experienceId"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			experienceID := uint(id)
			filters.ExperienceID = &experienceID
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
