package auth

import (
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of the numeric password.
func HashPassword(password int64) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(strconv.FormatInt(password, 10)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a numeric password with a bcrypt hash.
func CheckPassword(hash string, password int64) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strconv.FormatInt(password, 10))) == nil
}
