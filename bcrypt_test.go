package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/goliatone/go-credentials"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true,
		},
		{
			name:     "Exactly 72 bytes",
			password: strings.Repeat("a", auth.MaxPasswordBytes),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, hasher.Verify(tt.password, hash))
		})
	}
}

func TestBcryptHasher_SaltedOutputs(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("secret")
	require.NoError(t, err)
	second, err := hasher.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("secret", first))
	assert.True(t, hasher.Verify("secret", second))
	assert.False(t, hasher.Verify("wrong", first))
	assert.False(t, hasher.Verify("wrong", second))
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("testPassword123!")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "Matching password", password: "testPassword123!", hash: hash, want: true},
		{name: "Wrong password", password: "wrongPassword", hash: hash},
		{name: "Empty hash", password: "testPassword123!", hash: ""},
		{name: "Malformed hash", password: "testPassword123!", hash: "not-a-bcrypt-hash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Verify(tt.password, tt.hash))
		})
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", auth.MaxPasswordBytes+1))
	require.Error(t, err)
	assert.True(t, auth.HasTextCode(err, auth.TextCodeValidation))

	fields := auth.ValidationFields(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "password", fields[0].Field)
}

func TestNewBcryptHasher_Cost(t *testing.T) {
	assert.Equal(t, auth.DefaultPasswordCost, auth.NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.MinCost, auth.NewBcryptHasher(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, auth.NewBcryptHasher(99).Cost())
	assert.Equal(t, 10, auth.NewBcryptHasher(10).Cost())
}
