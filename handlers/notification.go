package handlers

import (
	"net/http"

	notificationRepo "gigbridge/database/repository/notification"
	"gigbridge/middleware"
	"gigbridge/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultNotificationLimit = 50

// NotificationHandler serves the in-app notification inbox.
type NotificationHandler struct {
	Repo   notificationRepo.NotificationRepository
	Logger *zap.Logger
}

func NewNotificationHandler(repo notificationRepo.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{Repo: repo, Logger: logger}
}

// ListNotifications returns the caller's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit := defaultNotificationLimit
	if v := c.Query("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}

	items, err := h.Repo.ListForAccount(c.Request.Context(), actor.AccountID, limit)
	if err != nil {
		h.Logger.Error("failed to list notifications", zap.Error(err), zap.String("accountID", actor.AccountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if items == nil {
		items = []models.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// MarkNotificationRead flags one of the caller's notifications as read.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id := c.Param("id")

	if err := h.Repo.MarkRead(c.Request.Context(), id, actor.AccountID); err != nil {
		h.Logger.Error("failed to mark notification read", zap.Error(err), zap.String("notificationID", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
