package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	supportDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/support"
)

// securityReport handles the "this was not me" link from the password-changed
// email. The endpoint takes no session, the owner may no longer be able to
// log in at this point.
func (h *HttpEndpoints) securityReport(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		slog.Error("missing token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	lj, err := h.lojistaDBConn.LockBySecurityToken(token)
	if err != nil {
		slog.Warn("invalid or used security token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or used token"})
		return
	}

	// the lock is already committed, ticket creation is idempotent per
	// lojista and type
	if _, err := h.supportDBConn.UpsertOpenTicket(
		lj.ID.Hex(),
		supportDB.TICKET_TYPE_COMPROMISSO_CONTA,
		"Lojista reportou alteração de senha não autorizada.",
	); err != nil {
		slog.Error("failed to create security ticket", slog.String("error", err.Error()), slog.String("lojistaID", lj.ID.Hex()))
	}

	if _, err := h.supportDBConn.CreateNotification(supportDB.Notificacao{
		Titulo:    "Conta bloqueada por segurança",
		Mensagem:  "Sua conta foi bloqueada após um relato de alteração de senha não autorizada. Nossa equipe de suporte entrará em contato.",
		LojistaID: lj.ID.Hex(),
		Tipo:      supportDB.NOTIFICATION_TYPE_SEGURANCA,
	}); err != nil {
		slog.Error("failed to create security notification", slog.String("error", err.Error()), slog.String("lojistaID", lj.ID.Hex()))
	}

	slog.Info("account locked after security report", slog.String("lojistaID", lj.ID.Hex()))
	c.Redirect(http.StatusFound, h.confirmationPageURL)
}
