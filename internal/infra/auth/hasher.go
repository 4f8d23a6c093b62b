package auth

import (
	"strings"

	"blog/config"
	"blog/internal/domain/constants"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/service"
)

// NewPasswordHasher selects the hasher named by auth.hasher. An empty name means bcrypt.
func NewPasswordHasher(cfg *config.Config) (service.PasswordHasher, error) {
	var authCfg config.AuthConfig
	if cfg.Auth != nil {
		authCfg = *cfg.Auth
	}

	switch strings.ToLower(strings.TrimSpace(authCfg.Hasher)) {
	case "", constants.HasherBcrypt:
		return NewBcryptHasherWithCost(authCfg.BcryptCost, cfg.PasswordStrength), nil
	case constants.HasherArgon2id:
		return NewArgon2Hasher(nil, cfg.PasswordStrength), nil
	default:
		return nil, domainerrors.ErrConfiguration.WrapMessage("unsupported password hasher: " + authCfg.Hasher)
	}
}
