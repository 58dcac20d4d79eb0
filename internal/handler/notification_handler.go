package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/repository"
)

type NotificationHandler struct {
	repo   *repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationHandler(repo *repository.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{repo: repo, logger: logger}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	notifications, err := h.repo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("ListNotifications: failed",
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.repo.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.logger.Error("MarkRead: failed",
			zap.Int("user_id", userID),
			zap.Int("notification_id", id),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
