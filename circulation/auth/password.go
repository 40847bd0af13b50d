package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

// MinPasswordLength is the shortest password accepted for a staff account.
const MinPasswordLength = 8

// HashPassword checks the password length and returns its bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", core.ErrValidation.WithDetail(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", core.ErrValidation.WithDetail("Password is too long")
		}

		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}

// PasswordMatches reports whether password is the one hash was built from.
func PasswordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
