package auth

import (
	"github.com/alexedwards/argon2id"

	"blog/config"
	domainerrors "blog/internal/domain/errors"
	"blog/internal/domain/service"
	"blog/internal/errors"
)

// argon2Hasher stores digests in the encoded $argon2id$v=19$m=... form.
type argon2Hasher struct {
	params *argon2id.Params
	policy passwordPolicy
}

// NewArgon2Hasher builds an argon2id hasher. Nil params use argon2id.DefaultParams.
func NewArgon2Hasher(params *argon2id.Params, strength *config.PasswordStrengthConfig) service.PasswordHasher {
	if params == nil {
		params = argon2id.DefaultParams
	}

	return &argon2Hasher{
		params: params,
		policy: newPasswordPolicy(strength),
	}
}

func (h *argon2Hasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return hash, nil
}

// Check reports false for malformed digests instead of surfacing the decode error.
func (h *argon2Hasher) Check(password, hash string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, hash)

	return err == nil && match
}

func (h *argon2Hasher) ValidatePasswordStrength(password string) error {
	return h.policy.validate(password)
}
