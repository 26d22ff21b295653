package handlers

import (
	"net/http"

	"hirewise/middleware"
	"hirewise/models"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateProviderHandler handles POST /providers.
func (h *ProviderHandler) CreateProviderHandler(c *gin.Context) {
	var in models.CreateProviderInput
	if !bindJSON(c, &in) {
		return
	}
	actor := middleware.ActorFrom(c)
	prov, err := h.Service.CreateProvider(c.Request.Context(), actor, in)
	if err != nil {
		getLogger(c).Warn("Failed to create provider", zap.String("userId", actor.ID), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, prov)
}

// GetProviderByIDHandler handles GET /providers/:id.
func (h *ProviderHandler) GetProviderByIDHandler(c *gin.Context) {
	prov, err := h.Service.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prov)
}

// ListProvidersHandler handles GET /providers.
func (h *ProviderHandler) ListProvidersHandler(c *gin.Context) {
	providers, err := h.Service.ListProviders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

// UpdateProviderHandler handles PATCH /providers/:id.
func (h *ProviderHandler) UpdateProviderHandler(c *gin.Context) {
	var req models.ProviderUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	id := c.Param("id")
	prov, err := h.Service.UpdateProfile(c.Request.Context(), id, middleware.ActorFrom(c), req)
	if err != nil {
		getLogger(c).Warn("Failed to update provider", zap.String("id", id), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prov)
}

// DeleteProviderHandler handles DELETE /providers/:id.
func (h *ProviderHandler) DeleteProviderHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.DeleteProvider(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		getLogger(c).Warn("Failed to delete provider", zap.String("id", id), zap.Error(err))
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Provider deleted"})
}

// GetProviderScoreHandler handles GET /providers/:id/score.
func (h *ProviderHandler) GetProviderScoreHandler(c *gin.Context) {
	breakdown, err := h.Scores.ComputeBreakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// GetProviderTrendHandler handles GET /providers/:id/trend.
func (h *ProviderHandler) GetProviderTrendHandler(c *gin.Context) {
	trend, err := h.Scores.PredictTrend(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// ListProviderReviewsHandler handles GET /providers/:id/reviews.
func (h *ProviderHandler) ListProviderReviewsHandler(c *gin.Context) {
	reviews, err := h.Reviews.ListForProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}
