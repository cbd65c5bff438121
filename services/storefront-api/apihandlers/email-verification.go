package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	emailsending "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/email-sending"
	umUtils "github.com/vitrine-commerce/vitrine-backend/pkg/user-management/utils"
)

func (h *HttpEndpoints) verificarEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		slog.Error("missing token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	// used and unknown tokens get the same response
	lj, err := h.lojistaDBConn.RedeemVerificationToken(token)
	if err != nil {
		slog.Warn("invalid or used verification token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or used token"})
		return
	}

	slog.Info("email verified", slog.String("lojistaID", lj.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

type ReenviarVerificacaoReq struct {
	Email string `json:"email"`
}

func (h *HttpEndpoints) reenviarVerificacao(c *gin.Context) {
	var req ReenviarVerificacaoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)
	if req.Email == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	// the response never discloses whether the account exists
	lj, err := h.lojistaDBConn.GetLojistaByEmail(req.Email)
	if err != nil || lj.EmailVerificado {
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a verification email was sent"})
		return
	}

	verificationToken, err := umUtils.GenerateUniqueTokenString()
	if err != nil {
		slog.Error("failed to generate verification token", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a verification email was sent"})
		return
	}

	if err := h.lojistaDBConn.SetVerificationToken(lj.ID.Hex(), verificationToken); err != nil {
		slog.Error("failed to save verification token", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a verification email was sent"})
		return
	}

	go func() {
		if err := emailsending.SendVerificationEmail(lj.Email, lj.Nome, verificationToken); err != nil {
			slog.Error("failed to send verification email", slog.String("error", err.Error()))
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a verification email was sent"})
}
