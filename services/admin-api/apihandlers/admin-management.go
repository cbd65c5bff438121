package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) getAdmins(c *gin.Context) {
	if h.requireActiveAdmin(c) == nil {
		return
	}

	admins, err := h.adminDBConn.GetAllAdmins()
	if err != nil {
		slog.Error("failed to fetch admins", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

func (h *HttpEndpoints) approveAdmin(c *gin.Context) {
	caller := h.requireActiveAdmin(c)
	if caller == nil {
		return
	}

	targetID := c.Param("id")
	admin, err := h.adminDBConn.ApproveAdmin(targetID)
	if err != nil {
		slog.Warn("approval of unknown or non-pending admin", slog.String("adminID", targetID))
		c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
		return
	}

	slog.Info("admin approved", slog.String("adminID", admin.ID.Hex()), slog.String("approvedBy", caller.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"admin": admin})
}

func (h *HttpEndpoints) deleteAdmin(c *gin.Context) {
	caller := h.requireActiveAdmin(c)
	if caller == nil {
		return
	}

	targetID := c.Param("id")
	if targetID == caller.ID.Hex() {
		slog.Warn("admin tried to delete themself", slog.String("adminID", targetID))
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete own account"})
		return
	}

	if err := h.adminDBConn.DeleteAdmin(targetID); err != nil {
		slog.Warn("deletion of unknown admin", slog.String("adminID", targetID))
		c.JSON(http.StatusNotFound, gin.H{"error": "admin not found"})
		return
	}

	slog.Info("admin deleted", slog.String("adminID", targetID), slog.String("deletedBy", caller.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "admin deleted"})
}
