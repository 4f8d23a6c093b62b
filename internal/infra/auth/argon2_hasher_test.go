package auth

import (
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastArgon2Params() *argon2id.Params {
	return &argon2id.Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2Hasher_HashAndCheck(t *testing.T) {
	hasher := NewArgon2Hasher(fastArgon2Params(), nil)

	first, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.Contains(t, first, "$argon2id$")

	second, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.True(t, hasher.Check("secret123", first))
	assert.False(t, hasher.Check("secret124", first))
}

func TestArgon2Hasher_MalformedHash(t *testing.T) {
	hasher := NewArgon2Hasher(fastArgon2Params(), nil)

	assert.False(t, hasher.Check("secret123", ""))
	assert.False(t, hasher.Check("secret123", "not-a-hash"))
	assert.False(t, hasher.Check("secret123", "$argon2id$v=19$m=broken"))
}

func TestArgon2Hasher_DefaultParams(t *testing.T) {
	hasher := NewArgon2Hasher(nil, nil)

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, hasher.Check("secret123", hash))
	assert.NoError(t, hasher.ValidatePasswordStrength("secret123"))
}
