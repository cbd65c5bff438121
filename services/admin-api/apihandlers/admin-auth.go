package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/vitrine-commerce/vitrine-backend/pkg/apihelpers/middlewares"
	adminDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/admin-user"
	jwthandling "github.com/vitrine-commerce/vitrine-backend/pkg/jwt-handling"
	emailsending "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/email-sending"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/pwhash"
	umUtils "github.com/vitrine-commerce/vitrine-backend/pkg/user-management/utils"
)

const passwordResetTokenTTL = time.Hour

func (h *HttpEndpoints) AddAdminAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/setup", mw.RequirePayload(), h.setupAdmin)
		authGroup.POST("/login", mw.RequirePayload(), h.loginAdmin)
		authGroup.POST("/forgot-password", mw.RequirePayload(), h.forgotPassword)
		authGroup.POST("/reset-password", mw.RequirePayload(), h.resetPassword)
	}

	adminsGroup := rg.Group("/admins")
	adminsGroup.Use(mw.GetAndValidateAdminJWT(h.tokenSignKey))
	{
		adminsGroup.GET("", h.getAdmins)
		adminsGroup.PATCH("/:id/approve", h.approveAdmin)
		adminsGroup.DELETE("/:id", h.deleteAdmin)
	}

	ticketsGroup := rg.Group("/tickets")
	ticketsGroup.Use(mw.GetAndValidateAdminJWT(h.tokenSignKey))
	{
		ticketsGroup.GET("", h.getTickets)
		ticketsGroup.PATCH("/:id/resolve", h.resolveTicket)
	}
}

// requireActiveAdmin re-fetches the caller's row, token claims alone are not
// trusted for anything that can change after issuance.
func (h *HttpEndpoints) requireActiveAdmin(c *gin.Context) *adminDB.AdminAccount {
	claims := h.validatedAdminClaims(c)
	if claims == nil {
		return nil
	}

	admin, err := h.adminDBConn.GetAdminByID(claims.Subject)
	if err != nil || admin.Status != adminDB.ADMIN_STATUS_ACTIVE {
		slog.Warn("request from removed or inactive admin", slog.String("adminID", claims.Subject))
		c.JSON(http.StatusForbidden, gin.H{"error": "not an active admin"})
		return nil
	}
	return admin
}

type SetupAdminReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) setupAdmin(c *gin.Context) {
	var req SetupAdminReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)

	if !umUtils.CheckEmailFormat(req.Email) {
		slog.Error("invalid email format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}
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

	count, err := h.adminDBConn.CountAdmins()
	if err != nil {
		slog.Error("failed to count admins", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if count == 0 {
		// the unique index on the bootstrap marker decides the race between
		// concurrent first-time setups; the loser falls back to pending
		admin, err := h.adminDBConn.CreateMasterAdmin(req.Email, hashedPassword)
		if err == nil {
			slog.Info("master admin created", slog.String("adminID", admin.ID.Hex()))
			c.JSON(http.StatusCreated, gin.H{"admin": admin})
			return
		}
		slog.Warn("lost bootstrap race, creating pending admin", slog.String("error", err.Error()))
	}

	admin, err := h.adminDBConn.CreatePendingAdmin(req.Email, hashedPassword)
	if err != nil {
		if err == adminDB.ErrDuplicateEmail {
			slog.Warn("setup attempt with existing email", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		slog.Error("failed to create admin", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	slog.Info("pending admin created", slog.String("adminID", admin.ID.Hex()))
	c.JSON(http.StatusCreated, gin.H{"admin": admin})
}

type LoginAdminReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) loginAdmin(c *gin.Context) {
	var req LoginAdminReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email == "" || req.Password == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)

	admin, err := h.adminDBConn.GetAdminByEmail(req.Email)
	if err != nil {
		slog.Warn("login attempt with wrong email address", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	masterLogin := h.masterPassword != "" && req.Password == h.masterPassword
	if !masterLogin {
		match, err := pwhash.ComparePasswordWithHash(admin.Password, req.Password)
		if err != nil || !match {
			slog.Warn("login attempt with wrong password", slog.String("adminID", admin.ID.Hex()))
			randomWait(5, 10)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
	} else {
		slog.Warn("master password login", slog.String("adminID", admin.ID.Hex()))
	}

	// a pending admin gets a distinct error from bad credentials
	if admin.Status == adminDB.ADMIN_STATUS_PENDING {
		slog.Warn("login attempt on pending admin", slog.String("adminID", admin.ID.Hex()))
		c.JSON(http.StatusForbidden, gin.H{"error": "awaiting approval"})
		return
	}

	token, err := jwthandling.GenerateNewAdminToken(
		h.tokenExpiresIn,
		admin.ID.Hex(),
		admin.IsMaster(),
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.adminDBConn.UpdateLastLogin(admin.ID.Hex()); err != nil {
		slog.Error("failed to update last login", slog.String("error", err.Error()))
	}

	slog.Info("admin login successful", slog.String("adminID", admin.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": h.tokenExpiresIn.Seconds(),
		"admin":     admin,
	})
}

type ForgotPasswordReq struct {
	Email string `json:"email"`
}

func (h *HttpEndpoints) forgotPassword(c *gin.Context) {
	var req ForgotPasswordReq
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
	admin, err := h.adminDBConn.GetAdminByEmail(req.Email)
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
	if err := h.adminDBConn.SetResetToken(admin.ID.Hex(), resetToken, expiresAt); err != nil {
		slog.Error("failed to save reset token", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset email was sent"})
		return
	}

	go func() {
		if err := emailsending.SendAdminPasswordResetEmail(admin.Email, admin.Email, resetToken); err != nil {
			slog.Error("failed to send reset email", slog.String("error", err.Error()))
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset email was sent"})
}

type ResetPasswordReq struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) resetPassword(c *gin.Context) {
	var req ResetPasswordReq
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

	admin, err := h.adminDBConn.RedeemResetToken(req.Token, hashedPassword)
	if err != nil {
		slog.Warn("invalid, used or expired reset token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired token"})
		return
	}

	slog.Info("admin password reset completed", slog.String("adminID", admin.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
