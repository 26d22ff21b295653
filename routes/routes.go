package routes

import (
	"net/http"
	"time"

	"hirewise/handlers"
	"hirewise/middleware"
	"hirewise/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint group onto the engine.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterServiceRequestRoutes(r, hb)
	RegisterQuoteRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}

// RegisterProviderRoutes registers provider management endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		// Public profile and reliability reads
		api.GET("", hb.ListProvidersHandler)
		api.GET("/:id", hb.GetProviderByIDHandler)
		api.GET("/:id/score", hb.GetProviderScoreHandler)
		api.GET("/:id/trend", hb.GetProviderTrendHandler)
		api.GET("/:id/reviews", hb.ListProviderReviewsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", hb.CreateProviderHandler)
		protected.PATCH("/:id", hb.UpdateProviderHandler)
		protected.DELETE("/:id", hb.DeleteProviderHandler)
	}
}

// RegisterServiceRequestRoutes registers direct service request endpoints.
func RegisterServiceRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/service-requests")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateServiceRequestHandler)
		api.GET("", hb.ListMyServiceRequestsHandler)
		api.GET("/provider/:providerId", hb.ListProviderRequestsHandler)
		api.GET("/:id", hb.GetServiceRequestHandler)
		api.POST("/:id/estimate", hb.SendEstimateHandler)
		api.POST("/:id/accept", hb.AcceptServiceRequestHandler)
		api.POST("/:id/start", hb.StartServiceRequestHandler)
		api.POST("/:id/complete", hb.CompleteServiceRequestHandler)
		api.POST("/:id/cancel", hb.CancelServiceRequestHandler)
		api.POST("/:id/review", hb.SubmitServiceReviewHandler)
	}
}

// RegisterQuoteRoutes registers quote marketplace endpoints.
func RegisterQuoteRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/quote-requests")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateQuoteRequestHandler)
		api.GET("", hb.ListMyQuoteRequests)
		api.GET("/open", hb.ListOpenQuoteRequests)
		api.GET("/:id", hb.GetQuoteRequestHandler)
		api.POST("/:id/quotes", hb.SubmitQuoteHandler)
		api.POST("/:id/quotes/:quoteId/accept", hb.AcceptQuoteHandler)
		api.POST("/:id/reject", hb.RejectQuoteRequestHandler)
	}
}

// RegisterNotificationRoutes registers the caller's notification inbox.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.ListNotificationsHandler)
		api.GET("/unread-count", hb.UnreadCountHandler)
		api.PATCH("/:id/read", hb.MarkNotificationRead)
	}
}

// RegisterAdminRoutes registers admin endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.AdminAuthMiddleware(hb.AdminTokenHash))
		admin.POST("/bookings/:id/verify", hb.VerifyBookingHandler)
		admin.POST("/scores/refresh", hb.RefreshAllScoresHandler)
		admin.POST("/scores/:providerId/refresh", hb.RefreshProviderScoreHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm HireWise", "dependencies": status})
	})
}
