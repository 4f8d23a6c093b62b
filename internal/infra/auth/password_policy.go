package auth

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"blog/config"
	domainerrors "blog/internal/domain/errors"
)

// passwordPolicy enforces the configured password strength rules.
// It is shared by every PasswordHasher implementation.
type passwordPolicy struct {
	minLength        int
	maxLength        int
	requireUppercase bool
	requireLowercase bool
	requireNumbers   bool
	requireSpecial   bool
}

func newPasswordPolicy(cfg *config.PasswordStrengthConfig) passwordPolicy {
	if cfg == nil {
		return passwordPolicy{minLength: 8, maxLength: 72}
	}

	return passwordPolicy{
		minLength:        cfg.MinLength,
		maxLength:        cfg.MaxLength,
		requireUppercase: cfg.RequireUppercase,
		requireLowercase: cfg.RequireLowercase,
		requireNumbers:   cfg.RequireNumbers,
		requireSpecial:   cfg.RequireSpecial,
	}
}

// validate returns ErrValidationFailed carrying the first violated rule.
func (p passwordPolicy) validate(password string) error {
	if p.minLength > 0 && utf8.RuneCountInString(password) < p.minLength {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("password must be at least %d characters long", p.minLength))
	}
	// bcrypt only looks at the first 72 bytes, so the upper bound is measured in bytes.
	if p.maxLength > 0 && len(password) > p.maxLength {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("password must be at most %d bytes long", p.maxLength))
	}
	if p.requireUppercase && !hasUppercase(password) {
		return domainerrors.ErrValidationFailed.WithDetails("password must contain at least one uppercase letter")
	}
	if p.requireLowercase && !hasLowercase(password) {
		return domainerrors.ErrValidationFailed.WithDetails("password must contain at least one lowercase letter")
	}
	if p.requireNumbers && !hasNumbers(password) {
		return domainerrors.ErrValidationFailed.WithDetails("password must contain at least one number")
	}
	if p.requireSpecial && !hasSpecialChars(password) {
		return domainerrors.ErrValidationFailed.WithDetails("password must contain at least one special character")
	}

	return nil
}

func hasUppercase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}

	return false
}

func hasLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}

	return false
}

func hasNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

func hasSpecialChars(s string) bool {
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}

	return false
}
