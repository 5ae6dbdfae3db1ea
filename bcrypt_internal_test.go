package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RandomSourceFailure(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hasher.generate = func([]byte, int) ([]byte, error) {
		return nil, errors.New("entropy exhausted")
	}

	hash, err := hasher.Hash("secret")
	assert.Empty(t, hash)
	assert.True(t, HasTextCode(err, TextCodeCryptoUnavailable))
	assert.Equal(t, ReasonCrypto, hashFailureReason(err))
}
