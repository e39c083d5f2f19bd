package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"short1", ErrPasswordTooShort},
		{"12345678", ErrPasswordTooCommon},
		{"98765432109", ErrPasswordAllNumeric},
		{"Password", ErrPasswordTooCommon},
		{"fire-drill-2024", nil},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("fire-drill-2024")
	require.NoError(t, err)

	assert.NotEqual(t, "fire-drill-2024", hash)
	assert.True(t, CheckPassword(hash, "fire-drill-2024"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}
