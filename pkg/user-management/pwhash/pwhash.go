package pwhash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const minBcryptCost = 10

var bcryptCost = minBcryptCost

// InitBcryptParams sets the work factor used for new hashes. Values below the
// minimum are raised to it.
func InitBcryptParams(cost int) {
	if cost < minBcryptCost {
		cost = minBcryptCost
	}
	bcryptCost = cost
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePasswordWithHash reports whether the password matches the stored
// hash. The comparison is constant time inside bcrypt.
func ComparePasswordWithHash(hash string, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
