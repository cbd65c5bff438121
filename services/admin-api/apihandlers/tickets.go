package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
	"github.com/vitrine-commerce/vitrine-backend/pkg/utils"
)

var ticketStatusFilters = []string{
	supportDB.TICKET_STATUS_ABERTO,
	supportDB.TICKET_STATUS_RESOLVIDO,
}

func (h *HttpEndpoints) getTickets(c *gin.Context) {
	if h.requireActiveAdmin(c) == nil {
		return
	}

	status := c.Query("status")
	if status != "" && !utils.ContainsString(ticketStatusFilters, status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	tickets, err := h.ticketDBConn.GetTickets(status)
	if err != nil {
		slog.Error("failed to fetch tickets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// resolveTicket closes an open ticket. Resolving an account-compromise ticket
// is the only path that clears the lojista's security lock; other ticket
// types never unlock an account.
func (h *HttpEndpoints) resolveTicket(c *gin.Context) {
	caller := h.requireActiveAdmin(c)
	if caller == nil {
		return
	}

	ticketID := c.Param("id")
	ticket, err := h.ticketDBConn.ResolveTicket(ticketID)
	if err != nil {
		slog.Warn("resolution of unknown or closed ticket", slog.String("ticketID", ticketID))
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}

	if ticket.Tipo == supportDB.TICKET_TYPE_COMPROMISSO_CONTA {
		if err := h.lojistaDBConn.ClearSecurityLock(ticket.LojistaID); err != nil {
			slog.Error("failed to clear security lock", slog.String("error", err.Error()), slog.String("lojistaID", ticket.LojistaID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		slog.Info("security lock cleared", slog.String("lojistaID", ticket.LojistaID), slog.String("resolvedBy", caller.ID.Hex()))
	}

	slog.Info("ticket resolved", slog.String("ticketID", ticketID), slog.String("resolvedBy", caller.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}
