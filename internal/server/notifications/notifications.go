package notifications

import (
	"net/http"

	"kaambuddy/internal/pkg/response"
	"kaambuddy/internal/server/middleware"
	"kaambuddy/internal/server/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	notifications *repository.NotificationRepository
}

func NewHandler(notifications *repository.NotificationRepository) *Handler {
	return &Handler{notifications: notifications}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.GET("/notifications/unread-count", h.UnreadCount)
	rg.PUT("/notifications/read-all", h.MarkAllRead)
	rg.PUT("/notifications/:id/read", h.MarkRead)
	rg.DELETE("/notifications", h.DeleteAll)
	rg.DELETE("/notifications/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.notifications.ListForUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.CountUnread(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	affected, err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update notification")
		return
	}
	if affected == 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}
	response.Message(c, http.StatusOK, "Notification marked as read")
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), c.GetString(middleware.CtxUserID)); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update notifications")
		return
	}
	response.Message(c, http.StatusOK, "All notifications marked as read")
}

func (h *Handler) Delete(c *gin.Context) {
	affected, err := h.notifications.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserID))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete notification")
		return
	}
	if affected == 0 {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}
	response.Message(c, http.StatusOK, "Notification deleted")
}

func (h *Handler) DeleteAll(c *gin.Context) {
	if err := h.notifications.DeleteAll(c.Request.Context(), c.GetString(middleware.CtxUserID)); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete notifications")
		return
	}
	response.Message(c, http.StatusOK, "All notifications deleted")
}
