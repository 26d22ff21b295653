package handlers

import (
	"context"
	"net/http"

	"hirewise/middleware"
	"hirewise/models"
	"hirewise/services/booking"
	"hirewise/services/scoring"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScoreTaskQueue hands score recomputation to the background worker.
type ScoreTaskQueue interface {
	EnqueueScoreSweep(ctx context.Context) error
	EnqueueProviderScore(ctx context.Context, providerID string) error
}

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Bookings booking.BookingService
	Scores   scoring.ScoreService
	Queue    ScoreTaskQueue
}

// NewAdminHandler creates a new AdminHandler. A nil queue makes score refreshes run inline.
func NewAdminHandler(bs booking.BookingService, ss scoring.ScoreService, q ScoreTaskQueue) *AdminHandler {
	return &AdminHandler{Bookings: bs, Scores: ss, Queue: q}
}

// VerifyBookingHandler handles POST /admin/bookings/:id/verify.
func (ah *AdminHandler) VerifyBookingHandler(c *gin.Context) {
	var in models.VerificationInput
	if !bindJSON(c, &in) {
		return
	}
	id := c.Param("id")
	actor := middleware.ActorFrom(c)
	b, err := ah.Bookings.Verify(c.Request.Context(), id, actor, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("booking verified", zap.String("bookingId", id), zap.String("admin", actor.ID), zap.Bool("verified", in.IsVerified))
	c.JSON(http.StatusOK, b)
}

// RefreshAllScoresHandler handles POST /admin/scores/refresh.
func (ah *AdminHandler) RefreshAllScoresHandler(c *gin.Context) {
	if ah.Queue != nil {
		if err := ah.Queue.EnqueueScoreSweep(c.Request.Context()); err != nil {
			utils.RespondError(c, utils.NewInternalError(err, "failed to enqueue score sweep"))
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Score sweep enqueued"})
		return
	}
	summary, err := ah.Scores.UpdateAllScores(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RefreshProviderScoreHandler handles POST /admin/scores/:providerId/refresh.
func (ah *AdminHandler) RefreshProviderScoreHandler(c *gin.Context) {
	providerID := c.Param("providerId")
	if ah.Queue != nil {
		if err := ah.Queue.EnqueueProviderScore(c.Request.Context(), providerID); err != nil {
			utils.RespondError(c, utils.NewInternalError(err, "failed to enqueue score refresh"))
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Score refresh enqueued", "providerId": providerID})
		return
	}
	score, err := ah.Scores.UpdateProviderScore(c.Request.Context(), providerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": providerID, "score": score})
}
