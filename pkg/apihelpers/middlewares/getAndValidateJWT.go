package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwthandling "github.com/vitrine-commerce/vitrine-backend/pkg/jwt-handling"
)

const HeaderAuthorization = "Authorization"

// ExtractToken pulls the bearer credential from the Authorization header.
// Absence is reported as an error for callers that require authentication;
// callers with an anonymous path should ignore it.
func ExtractToken(c *gin.Context) (string, error) {
	req := c.Request

	var token string
	tokens, ok := req.Header[HeaderAuthorization]
	if ok && len(tokens) > 0 {
		token = tokens[0]
		token = strings.TrimPrefix(token, "Bearer ")
		if len(token) == 0 {
			return token, errors.New("no token found in Authorization header")
		}
	} else {
		return token, errors.New("no Authorization header found")
	}
	return token, nil
}

// GetAndValidateLojistaJWT validates the bearer token and rejects partial
// (pre-2FA) tokens; only the step-up completion endpoint may accept those.
func GetAndValidateLojistaJWT(tokenSignKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		parsedToken, ok, err := jwthandling.ValidateLojistaToken(token, tokenSignKey)
		if err != nil || !ok {
			slog.Warn("token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}

		if parsedToken.Partial {
			slog.Warn("partial token used on capability endpoint", slog.String("subject", parsedToken.Subject))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}

		c.Set("validatedToken", parsedToken)
	}
}

func GetAndValidateAdminJWT(tokenSignKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractToken(c)
		if err != nil {
			slog.Warn("no Authorization token found")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		parsedToken, ok, err := jwthandling.ValidateAdminToken(token, tokenSignKey)
		if err != nil || !ok {
			slog.Warn("token validation failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
			c.Abort()
			return
		}

		c.Set("validatedToken", parsedToken)
	}
}
