package routes

import (
	"hirewise/handlers"
	"hirewise/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/bookings")
	{
		booking.GET("/availability", hb.CheckAvailabilityHandler)

		booking.Use(middleware.JWTAuthMiddleware())
		booking.POST("", hb.CreateBookingHandler)
		booking.GET("", hb.ListMyBookingsHandler)
		booking.GET("/provider/:providerId", hb.ListProviderBookingsHandler)
		booking.GET("/:id", hb.GetBookingHandler)
		booking.PATCH("/:id/status", hb.UpdateBookingStatusHandler)
		booking.POST("/:id/arrival", hb.RecordArrivalHandler)
		booking.POST("/:id/review", hb.SubmitBookingReviewHandler)
		booking.POST("/:id/provider-rating", hb.SubmitProviderRatingHandler)
	}
}
