package handlers

import (
	"net/http"

	"hirewise/middleware"
	"hirewise/models"
	"hirewise/services/booking"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(bs booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: bs}
}

// CreateBookingHandler handles POST /bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var in models.CreateBookingInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Service.CreateBooking(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		getLogger(c).Info("booking rejected",
			zap.String("providerId", in.ProviderID),
			zap.String("date", in.Date),
			zap.String("slot", in.TimeSlot),
			zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// CheckAvailabilityHandler handles GET /bookings/availability?providerId=&date=&timeSlot=.
func (h *BookingHandler) CheckAvailabilityHandler(c *gin.Context) {
	providerID := c.Query("providerId")
	date := c.Query("date")
	slot := models.TimeSlot(c.Query("timeSlot"))
	if providerID == "" || date == "" {
		utils.RespondError(c, utils.NewValidationError("providerId and date are required"))
		return
	}
	conflict, err := h.Service.HasConflict(c.Request.Context(), providerID, date, slot)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": !conflict})
}

// GetBookingHandler handles GET /bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMyBookingsHandler handles GET /bookings.
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	bookings, err := h.Service.ListForCustomer(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListProviderBookingsHandler handles GET /bookings/provider/:providerId.
func (h *BookingHandler) ListProviderBookingsHandler(c *gin.Context) {
	bookings, err := h.Service.ListForProvider(c.Request.Context(), c.Param("providerId"), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateStatusHandler handles PATCH /bookings/:id/status.
func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	var in models.StatusUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	id := c.Param("id")
	b, err := h.Service.UpdateStatus(c.Request.Context(), id, middleware.ActorFrom(c), in)
	if err != nil {
		getLogger(c).Info("status update rejected", zap.String("bookingId", id), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// RecordArrivalHandler handles POST /bookings/:id/arrival. An empty body stamps the current time.
func (h *BookingHandler) RecordArrivalHandler(c *gin.Context) {
	var in models.ArrivalInput
	if c.Request.ContentLength > 0 && !bindJSON(c, &in) {
		return
	}
	b, err := h.Service.RecordArrival(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// SubmitReviewHandler handles POST /bookings/:id/review.
func (h *BookingHandler) SubmitReviewHandler(c *gin.Context) {
	var in models.RatingInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Service.SubmitReview(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// SubmitProviderRatingHandler handles POST /bookings/:id/provider-rating.
func (h *BookingHandler) SubmitProviderRatingHandler(c *gin.Context) {
	var in models.RatingInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.Service.SubmitProviderRating(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
