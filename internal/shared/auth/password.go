package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt and an optional pepper.
type PasswordHasher struct {
	Cost   int
	Pepper string
}

// NewPasswordHasher validates the cost range (10-14).
func NewPasswordHasher(cost int, pepper string) (*PasswordHasher, error) {
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}
	return &PasswordHasher{Cost: cost, Pepper: pepper}, nil
}

// Hash returns the bcrypt hash of pw.
func (h *PasswordHasher) Hash(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+h.Pepper), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether pw matches storedHash. An empty hash never matches.
func (h *PasswordHasher) Verify(pw, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+h.Pepper)) == nil
}
