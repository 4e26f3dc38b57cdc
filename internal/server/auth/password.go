package auth

import (
	"errors"

	"github.com/dmitrijs2005/photoalbum/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is a var so tests can lower it.
var bcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(password, bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword checks password against hash. A mismatch yields
// common.ErrorWrongPassword.
func ComparePassword(hash string, password []byte) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorWrongPassword
	}
	return err
}
