package handlers

import (
	"net/http"
	"strconv"

	"hirewise/middleware"
	"hirewise/services/notification"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(ns notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: ns}
}

// ListHandler handles GET /notifications?unread=true&limit=20.
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	items, err := h.Service.ListForUser(c.Request.Context(), middleware.ActorFrom(c), unreadOnly, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// UnreadCountHandler handles GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	n, err := h.Service.UnreadCount(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// MarkReadHandler handles PATCH /notifications/:id/read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	if err := h.Service.MarkRead(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
