package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the hashing cost for stored passwords
const BcryptCost = 12

// PasswordMinLength is the shortest accepted password
const PasswordMinLength = 8

// ErrPasswordTooShort is returned for passwords below PasswordMinLength
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", PasswordMinLength)

// HashPassword hashes a plain-text password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < PasswordMinLength {
		return "", ErrPasswordTooShort
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("password is too long: %w", err)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash with a plain-text password
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
