package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	emailsending "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/email-sending"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/pwhash"
	umUtils "github.com/vitrine-commerce/vitrine-backend/pkg/user-management/utils"
)

type RedefinirSenhaReq struct {
	Email string `json:"email"`
}

func (h *HttpEndpoints) redefinirSenha(c *gin.Context) {
	var req RedefinirSenhaReq
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
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset email was sent"})
		return
	}

	resetToken, err := umUtils.GenerateUniqueTokenString()
	if err != nil {
		slog.Error("failed to generate reset token", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset email was sent"})
		return
	}

	expiresAt := umUtils.GetExpirationTime(passwordResetTokenTTL)
	if err := h.lojistaDBConn.SetPasswordResetToken(lj.ID.Hex(), resetToken, expiresAt); err != nil {
		slog.Error("failed to save reset token", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset email was sent"})
		return
	}

	go func() {
		if err := emailsending.SendPasswordResetEmail(lj.Email, lj.Nome, resetToken); err != nil {
			slog.Error("failed to send reset email", slog.String("error", err.Error()))
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset email was sent"})
}

type NovaSenhaReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) novaSenha(c *gin.Context) {
	var req NovaSenhaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Token == "" {
		slog.Error("missing token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	// the password policy is checked before any persisted state is touched
	if !umUtils.CheckPasswordFormat(req.Password) {
		slog.Error("invalid password format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "password does not match requirements"})
		return
	}

	hashedPassword, err := pwhash.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	securityToken, err := umUtils.GenerateUniqueTokenString()
	if err != nil {
		slog.Error("failed to generate security token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	lj, err := h.lojistaDBConn.RedeemPasswordResetToken(req.Token, hashedPassword, securityToken)
	if err != nil {
		slog.Warn("invalid, used or expired reset token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}

	go func() {
		if err := emailsending.SendPasswordChangedEmail(lj.Email, lj.Nome, securityToken); err != nil {
			slog.Error("failed to send password changed email", slog.String("error", err.Error()))
		}
	}()

	slog.Info("password reset completed", slog.String("lojistaID", lj.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
