package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost for stored passwords; tests lower it
var BcryptCost = bcrypt.DefaultCost

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// IsBcryptHash reports whether s looks like a bcrypt hash
func IsBcryptHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}
	return strings.HasPrefix(s, "$2")
}

// CheckSecret compares a candidate against a configured secret that is either a bcrypt hash or plain text
func CheckSecret(configured, candidate string) bool {
	if IsBcryptHash(configured) {
		return CheckPassword(configured, candidate)
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(candidate)) == 1
}
