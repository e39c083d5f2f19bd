package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

var (
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrPasswordAllNumeric = errors.New("password cannot be entirely numeric")
	ErrPasswordTooCommon  = errors.New("password is too common")
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "qwerty123": {},
	"letmein1": {}, "iloveyou": {}, "admin123": {}, "welcome1": {},
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword applies the password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return ErrPasswordTooCommon
	}
	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrPasswordAllNumeric
	}
	return nil
}
