package handlers

import (
	"net/http"

	"hirewise/middleware"
	"hirewise/models"
	"hirewise/services/review"
	"hirewise/services/servicerequest"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceRequestHandler exposes direct service requests and the reviews written against them.
type ServiceRequestHandler struct {
	Service servicerequest.ServiceRequestService
	Reviews review.ReviewService
}

func NewServiceRequestHandler(srs servicerequest.ServiceRequestService, rs review.ReviewService) *ServiceRequestHandler {
	return &ServiceRequestHandler{Service: srs, Reviews: rs}
}

// CreateHandler handles POST /service-requests.
func (h *ServiceRequestHandler) CreateHandler(c *gin.Context) {
	var in models.CreateServiceRequestInput
	if !bindJSON(c, &in) {
		return
	}
	sr, err := h.Service.Create(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sr)
}

// GetHandler handles GET /service-requests/:id.
func (h *ServiceRequestHandler) GetHandler(c *gin.Context) {
	sr, err := h.Service.Get(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}

// ListMineHandler handles GET /service-requests.
func (h *ServiceRequestHandler) ListMineHandler(c *gin.Context) {
	requests, err := h.Service.ListForCustomer(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListForProviderHandler handles GET /service-requests/provider/:providerId.
func (h *ServiceRequestHandler) ListForProviderHandler(c *gin.Context) {
	requests, err := h.Service.ListForProvider(c.Request.Context(), c.Param("providerId"), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// SendEstimateHandler handles POST /service-requests/:id/estimate.
func (h *ServiceRequestHandler) SendEstimateHandler(c *gin.Context) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if !bindJSON(c, &body) {
		return
	}
	sr, err := h.Service.SendEstimate(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), body.Amount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}

// AdvanceHandler returns the handler for POST /service-requests/:id/<action>.
func (h *ServiceRequestHandler) AdvanceHandler(action models.ServiceRequestAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		sr, err := h.Service.Advance(c.Request.Context(), id, middleware.ActorFrom(c), action)
		if err != nil {
			getLogger(c).Info("service request transition rejected",
				zap.String("requestId", id), zap.String("action", string(action)), zap.Error(err))
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sr)
	}
}

// SubmitReviewHandler handles POST /service-requests/:id/review.
func (h *ServiceRequestHandler) SubmitReviewHandler(c *gin.Context) {
	var in models.ReviewInput
	if !bindJSON(c, &in) {
		return
	}
	r, err := h.Reviews.SubmitServiceReview(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}
