package apihandlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	jwthandling "github.com/vitrine-commerce/vitrine-backend/pkg/jwt-handling"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/pwhash"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/totp"
)

func (h *HttpEndpoints) validatedLojistaClaims(c *gin.Context) *jwthandling.LojistaClaims {
	tokenValue, exists := c.Get("validatedToken")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return nil
	}
	claims, ok := tokenValue.(*jwthandling.LojistaClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return nil
	}
	return claims
}

// enrollTwoFactor stores a candidate secret on the account and returns it
// together with the provisioning URI. The secret only becomes active once a
// code is confirmed through the enable endpoint. Concurrent enrollments
// overwrite each other, last writer wins.
func (h *HttpEndpoints) enrollTwoFactor(c *gin.Context) {
	claims := h.validatedLojistaClaims(c)
	if claims == nil {
		return
	}

	lj, err := h.lojistaDBConn.GetLojistaByID(claims.Subject)
	if err != nil {
		slog.Error("failed to fetch lojista", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return
	}
	if lj.Bloqueado {
		c.JSON(http.StatusForbidden, gin.H{"error": "conta bloqueada"})
		return
	}

	enrollment, err := totp.GenerateEnrollment(h.brandName, lj.Email)
	if err != nil {
		slog.Error("failed to generate totp enrollment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.lojistaDBConn.SetTwoFactorSecret(lj.ID.Hex(), enrollment.Secret); err != nil {
		slog.Error("failed to save totp secret", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// the secret is returned exactly once, at enrollment
	c.JSON(http.StatusOK, gin.H{
		"secret":          enrollment.Secret,
		"provisioningURI": enrollment.ProvisioningURI,
	})
}

type EnableTwoFactorReq struct {
	Code string `json:"code"`
}

func (h *HttpEndpoints) enableTwoFactor(c *gin.Context) {
	claims := h.validatedLojistaClaims(c)
	if claims == nil {
		return
	}

	var req EnableTwoFactorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lj, err := h.lojistaDBConn.GetLojistaByID(claims.Subject)
	if err != nil {
		slog.Error("failed to fetch lojista", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return
	}

	if lj.TwoFactorSecret == "" {
		slog.Warn("2fa enable without enrollment", slog.String("lojistaID", lj.ID.Hex()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "no enrollment in progress"})
		return
	}

	if !totp.VerifyCode(lj.TwoFactorSecret, req.Code) {
		slog.Warn("wrong 2fa code on enable", slog.String("lojistaID", lj.ID.Hex()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		return
	}

	if err := h.lojistaDBConn.EnableTwoFactor(lj.ID.Hex()); err != nil {
		slog.Error("failed to enable 2fa", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("2fa enabled", slog.String("lojistaID", lj.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "two factor authentication enabled"})
}

type DisableTwoFactorReq struct {
	Password string `json:"password"`
}

// disableTwoFactor requires the current password, a stolen session token
// alone must not be enough to strip the protection.
func (h *HttpEndpoints) disableTwoFactor(c *gin.Context) {
	claims := h.validatedLojistaClaims(c)
	if claims == nil {
		return
	}

	var req DisableTwoFactorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lj, err := h.lojistaDBConn.GetLojistaByID(claims.Subject)
	if err != nil {
		slog.Error("failed to fetch lojista", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return
	}

	match, err := pwhash.ComparePasswordWithHash(lj.Password, req.Password)
	if err != nil || !match {
		slog.Warn("wrong password on 2fa disable", slog.String("lojistaID", lj.ID.Hex()))
		randomWait(1, 3)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	if err := h.lojistaDBConn.DisableTwoFactor(lj.ID.Hex()); err != nil {
		slog.Error("failed to disable 2fa", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("2fa disabled", slog.String("lojistaID", lj.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "two factor authentication disabled"})
}
