package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information an admin session token encodes
type AdminClaims struct {
	Role     string `json:"role"`
	IsMaster bool   `json:"is_master,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewAdminToken(
	expiresIn time.Duration,
	id string,
	isMaster bool,
	secretKey string,
) (tokenString string, err error) {
	claims := AdminClaims{
		ROLE_ADMIN,
		isMaster,
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

func ValidateAdminToken(tokenString string, secretKey string) (claims *AdminClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*AdminClaims)
	valid = valid && token.Valid && claims.Role == ROLE_ADMIN
	return
}
