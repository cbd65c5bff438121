package apihandlers

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	jwthandling "github.com/vitrine-commerce/vitrine-backend/pkg/jwt-handling"
)

// stubbed in tests to keep the failure paths fast
var randomWait = func(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}

func (h *HttpEndpoints) validatedAdminClaims(c *gin.Context) *jwthandling.AdminClaims {
	tokenValue, exists := c.Get("validatedToken")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return nil
	}
	claims, ok := tokenValue.(*jwthandling.AdminClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "error during token validation"})
		return nil
	}
	return claims
}
