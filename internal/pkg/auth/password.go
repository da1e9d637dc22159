// internal/pkg/auth/password.go
package auth

import (
	"fmt"
	"strings"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password the storefront accepts
const MinPasswordLength = 6

// PasswordManager handles password operations
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	cost := cfg.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{cost: cost}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword validates password strength
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("password must be no more than 72 characters long")
	}

	// Check for common weak passwords
	commonPasswords := []string{
		"password", "123456", "1234567", "12345678", "qwerty", "letmein", "111111",
	}
	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if lower == common {
			return fmt.Errorf("password is too common and easily guessable")
		}
	}

	return nil
}
