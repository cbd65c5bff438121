package utils

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

const opaqueTokenBytes = 32

// GenerateUniqueTokenString returns a crypto-random opaque token for one-time
// links (email verification, password reset, security report).
func GenerateUniqueTokenString() (string, error) {
	token := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}
	return hex.EncodeToString(token), nil
}

func GetExpirationTime(validityPeriod time.Duration) time.Time {
	return time.Now().Add(validityPeriod)
}

func ReachedExpirationTime(t time.Time) bool {
	return time.Now().After(t)
}
