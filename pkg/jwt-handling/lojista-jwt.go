package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ROLE_ADMIN    = "admin"
	ROLE_LOJISTA  = "lojista"
	ROLE_CUSTOMER = "customer"
)

// Information a lojista session token encodes. Partial marks the restricted
// pre-2FA token class that only the step-up endpoint accepts.
type LojistaClaims struct {
	Role      string `json:"role"`
	LojistaID string `json:"lojista_id,omitempty"`
	Partial   bool   `json:"partial,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewLojistaToken(
	expiresIn time.Duration,
	id string,
	lojistaID string,
	partial bool,
	secretKey string,
) (tokenString string, err error) {
	claims := LojistaClaims{
		ROLE_LOJISTA,
		lojistaID,
		partial,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   id,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateLojistaToken(tokenString string, secretKey string) (claims *LojistaClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &LojistaClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*LojistaClaims)
	valid = valid && token.Valid && claims.Role == ROLE_LOJISTA
	return
}
