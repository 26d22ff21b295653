package handlers

import (
	"net/http"

	"hirewise/middleware"
	"hirewise/models"
	"hirewise/services/quote"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
)

// QuoteHandler exposes the quote marketplace.
type QuoteHandler struct {
	Service quote.QuoteService
}

func NewQuoteHandler(qs quote.QuoteService) *QuoteHandler {
	return &QuoteHandler{Service: qs}
}

// CreateHandler handles POST /quote-requests.
func (h *QuoteHandler) CreateHandler(c *gin.Context) {
	var in models.CreateQuoteRequestInput
	if !bindJSON(c, &in) {
		return
	}
	qr, err := h.Service.Create(c.Request.Context(), middleware.ActorFrom(c), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, qr)
}

// ListOpenHandler handles GET /quote-requests/open?category=.
func (h *QuoteHandler) ListOpenHandler(c *gin.Context) {
	requests, err := h.Service.ListOpen(c.Request.Context(), c.Query("category"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListMineHandler handles GET /quote-requests.
func (h *QuoteHandler) ListMineHandler(c *gin.Context) {
	requests, err := h.Service.ListForCustomer(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GetHandler handles GET /quote-requests/:id.
func (h *QuoteHandler) GetHandler(c *gin.Context) {
	qr, err := h.Service.Get(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}

// SubmitQuoteHandler handles POST /quote-requests/:id/quotes.
func (h *QuoteHandler) SubmitQuoteHandler(c *gin.Context) {
	var in models.SubmitQuoteInput
	if !bindJSON(c, &in) {
		return
	}
	qr, err := h.Service.SubmitQuote(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, qr)
}

// AcceptQuoteHandler handles POST /quote-requests/:id/quotes/:quoteId/accept.
func (h *QuoteHandler) AcceptQuoteHandler(c *gin.Context) {
	qr, err := h.Service.AcceptQuote(c.Request.Context(), c.Param("id"), c.Param("quoteId"), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}

// RejectHandler handles POST /quote-requests/:id/reject.
func (h *QuoteHandler) RejectHandler(c *gin.Context) {
	qr, err := h.Service.RejectRequest(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}
