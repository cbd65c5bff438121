package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) getNotifications(c *gin.Context) {
	claims := h.validatedLojistaClaims(c)
	if claims == nil {
		return
	}

	notifications, err := h.supportDBConn.GetNotificationsForLojista(claims.Subject)
	if err != nil {
		slog.Error("failed to fetch notifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notificacoes": notifications})
}

func (h *HttpEndpoints) markNotificationRead(c *gin.Context) {
	claims := h.validatedLojistaClaims(c)
	if claims == nil {
		return
	}

	notificationID := c.Param("id")
	if err := h.supportDBConn.MarkNotificationRead(notificationID, claims.Subject); err != nil {
		slog.Error("failed to mark notification as read", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification updated"})
}
