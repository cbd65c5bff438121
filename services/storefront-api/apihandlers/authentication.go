package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/vitrine-commerce/vitrine-backend/pkg/apihelpers/middlewares"
	lojistaDB "github.com/vitrine-commerce/vitrine-backend/pkg/db/lojista"
	jwthandling "github.com/vitrine-commerce/vitrine-backend/pkg/jwt-handling"
	emailsending "github.com/vitrine-commerce/vitrine-backend/pkg/messaging/email-sending"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/pwhash"
	"github.com/vitrine-commerce/vitrine-backend/pkg/user-management/totp"
	umUtils "github.com/vitrine-commerce/vitrine-backend/pkg/user-management/utils"
)

const (
	// partial tokens are only good for the 2FA step-up call
	partialTokenTTL = 5 * time.Minute

	passwordResetTokenTTL = time.Hour
)

func (h *HttpEndpoints) AddStorefrontAuthAPI(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", mw.RequirePayload(), h.signupLojista)
		authGroup.POST("/login", mw.RequirePayload(), h.loginLojista)
		authGroup.POST("/verify-login-2fa", mw.RequirePayload(), h.verifyLogin2FA)
		authGroup.GET("/me", h.getMe)

		authGroup.GET("/verificar-email", h.verificarEmail)
		authGroup.POST("/reenviar-verificacao", mw.RequirePayload(), h.reenviarVerificacao)

		authGroup.POST("/redefinir-senha", mw.RequirePayload(), h.redefinirSenha)
		authGroup.POST("/nova-senha", mw.RequirePayload(), h.novaSenha)

		authGroup.GET("/security-report", h.securityReport)
	}

	twoFAGroup := authGroup.Group("/2fa")
	twoFAGroup.Use(mw.GetAndValidateLojistaJWT(h.tokenSignKey))
	{
		twoFAGroup.POST("/enroll", h.enrollTwoFactor)
		twoFAGroup.POST("/enable", mw.RequirePayload(), h.enableTwoFactor)
		twoFAGroup.POST("/disable", mw.RequirePayload(), h.disableTwoFactor)
	}

	notifGroup := rg.Group("/notificacoes")
	notifGroup.Use(mw.GetAndValidateLojistaJWT(h.tokenSignKey))
	{
		notifGroup.GET("", h.getNotifications)
		notifGroup.PATCH("/:id/lida", h.markNotificationRead)
	}
}

type SignupLojistaReq struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) signupLojista(c *gin.Context) {
	var req SignupLojistaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = umUtils.SanitizeEmail(req.Email)
	req.Telefone = umUtils.SanitizePhoneNumber(req.Telefone)

	if !umUtils.CheckEmailFormat(req.Email) {
		slog.Error("invalid email format", slog.String("email", req.Email))
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

	verificationToken, err := umUtils.GenerateUniqueTokenString()
	if err != nil {
		slog.Error("failed to generate verification token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	newLojista := &lojistaDB.LojistaAccount{
		Email:            req.Email,
		Password:         hashedPassword,
		Nome:             req.Nome,
		Telefone:         req.Telefone,
		TokenVerificacao: verificationToken,
	}
	created, err := h.lojistaDBConn.CreateLojista(newLojista)
	if err != nil {
		if err == lojistaDB.ErrDuplicateEmail {
			slog.Warn("signup attempt with existing email", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		slog.Error("failed to create lojista", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	go func() {
		if err := emailsending.SendVerificationEmail(created.Email, created.Nome, verificationToken); err != nil {
			slog.Error("failed to send verification email", slog.String("error", err.Error()))
		}
	}()

	slog.Info("new lojista signed up", slog.String("lojistaID", created.ID.Hex()))
	c.JSON(http.StatusCreated, gin.H{"lojista": created})
}

type LoginLojistaReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HttpEndpoints) loginLojista(c *gin.Context) {
	var req LoginLojistaReq
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

	lj, err := h.lojistaDBConn.GetLojistaByEmail(req.Email)
	if err != nil {
		slog.Warn("login attempt with wrong email address", slog.String("email", umUtils.BlurEmailAddress(req.Email)))
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	masterLogin := h.masterPassword != "" && req.Password == h.masterPassword
	if !masterLogin {
		match, err := pwhash.ComparePasswordWithHash(lj.Password, req.Password)
		if err != nil || !match {
			slog.Warn("login attempt with wrong password", slog.String("lojistaID", lj.ID.Hex()))
			randomWait(5, 10)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
	} else {
		slog.Warn("master password login", slog.String("lojistaID", lj.ID.Hex()))
	}

	// the security lock wins over everything, including a correct password;
	// the response stays identical to the wrong-credentials one
	if lj.Bloqueado {
		slog.Warn("login attempt on locked account", slog.String("lojistaID", lj.ID.Hex()))
		randomWait(5, 10)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if !lj.LoginAllowed() {
		slog.Warn("login attempt with unverified email", slog.String("lojistaID", lj.ID.Hex()))
		c.JSON(http.StatusForbidden, gin.H{
			"error":                "email not verified",
			"email_nao_verificado": true,
			"email":                lj.Email,
		})
		return
	}

	if lj.TwoFactorEnabled && !masterLogin {
		tempToken, err := jwthandling.GenerateNewLojistaToken(
			partialTokenTTL,
			lj.ID.Hex(),
			lj.ID.Hex(),
			true,
			h.tokenSignKey,
		)
		if err != nil {
			slog.Error("failed to generate temp token", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"require2FA": true,
			"tempToken":  tempToken,
		})
		return
	}

	h.issueLojistaSession(c, lj)
}

func (h *HttpEndpoints) issueLojistaSession(c *gin.Context, lj *lojistaDB.LojistaAccount) {
	token, err := jwthandling.GenerateNewLojistaToken(
		h.tokenExpiresIn,
		lj.ID.Hex(),
		lj.ID.Hex(),
		false,
		h.tokenSignKey,
	)
	if err != nil {
		slog.Error("failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if err := h.lojistaDBConn.UpdateLastLogin(lj.ID.Hex()); err != nil {
		slog.Error("failed to update last login", slog.String("error", err.Error()))
	}

	slog.Info("login successful", slog.String("lojistaID", lj.ID.Hex()))
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": h.tokenExpiresIn.Seconds(),
		"lojista":   lj,
	})
}

type VerifyLogin2FAReq struct {
	TempToken string `json:"tempToken"`
	Code      string `json:"code"`
}

func (h *HttpEndpoints) verifyLogin2FA(c *gin.Context) {
	var req VerifyLogin2FAReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TempToken == "" || req.Code == "" {
		slog.Error("missing required fields")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	claims, valid, err := jwthandling.ValidateLojistaToken(req.TempToken, h.tokenSignKey)
	if err != nil || !valid || !claims.Partial {
		slog.Warn("invalid temp token for 2fa step up")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return
	}

	lj, err := h.lojistaDBConn.GetLojistaByID(claims.Subject)
	if err != nil {
		slog.Error("failed to fetch lojista for 2fa step up", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return
	}

	if !lj.TwoFactorEnabled || lj.TwoFactorSecret == "" {
		slog.Warn("2fa step up on account without 2fa", slog.String("lojistaID", lj.ID.Hex()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return
	}

	// a wrong code does not consume the temp token, the caller may retry
	// until it expires
	if !totp.VerifyCode(lj.TwoFactorSecret, req.Code) {
		slog.Warn("wrong 2fa code", slog.String("lojistaID", lj.ID.Hex()))
		randomWait(1, 3)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		return
	}

	// no token for locked accounts, and no hint that the lock exists
	if lj.Bloqueado {
		slog.Warn("2fa step up on locked account", slog.String("lojistaID", lj.ID.Hex()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return
	}

	h.issueLojistaSession(c, lj)
}

// getMe resolves the current identity. No or invalid credentials yield a null
// identity instead of an error, locked accounts are treated as anonymous.
func (h *HttpEndpoints) getMe(c *gin.Context) {
	token, err := mw.ExtractToken(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"lojista": nil})
		return
	}

	claims, valid, err := jwthandling.ValidateLojistaToken(token, h.tokenSignKey)
	if err != nil || !valid || claims.Partial {
		c.JSON(http.StatusOK, gin.H{"lojista": nil})
		return
	}

	lj, err := h.lojistaDBConn.GetLojistaByID(claims.Subject)
	if err != nil || lj.Bloqueado {
		c.JSON(http.StatusOK, gin.H{"lojista": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lojista": lj})
}
