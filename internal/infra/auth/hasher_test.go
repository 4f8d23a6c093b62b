package auth

import (
	"testing"

	"blog/config"
	domainerrors "blog/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordHasher(t *testing.T) {
	tests := []struct {
		name     string
		auth     *config.AuthConfig
		wantType any
		wantErr  bool
	}{
		{name: "nil auth config uses bcrypt", auth: nil, wantType: &bcryptHasher{}},
		{name: "empty name uses bcrypt", auth: &config.AuthConfig{}, wantType: &bcryptHasher{}},
		{name: "bcrypt", auth: &config.AuthConfig{Hasher: "bcrypt", BcryptCost: 4}, wantType: &bcryptHasher{}},
		{name: "argon2id", auth: &config.AuthConfig{Hasher: " Argon2id "}, wantType: &argon2Hasher{}},
		{name: "unknown", auth: &config.AuthConfig{Hasher: "md5"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher, err := NewPasswordHasher(&config.Config{Auth: tt.auth})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domainerrors.ErrConfiguration))
				assert.Nil(t, hasher)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, hasher)
		})
	}
}
