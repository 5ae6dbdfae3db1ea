package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// BcryptHasher hashes passwords with bcrypt. Every hash carries its own
// random salt and cost, so hashing the same password twice yields different
// strings.
type BcryptHasher struct {
	cost     int
	generate func(password []byte, cost int) ([]byte, error)
}

// NewBcryptHasher returns a hasher with the given cost. Zero picks the
// package default; other values are clamped to bcrypt's bounds.
func NewBcryptHasher(cost int) *BcryptHasher {
	switch {
	case cost == 0:
		cost = passwordHashCost()
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	return &BcryptHasher{
		cost:     cost,
		generate: bcrypt.GenerateFromPassword,
	}
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash will generate a password hash
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	out, err := h.generate([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", NewValidationError([]FieldError{{Field: "password", Message: passwordTooLongMessage}})
		}
		// bcrypt only fails past input checks when reading the salt fails
		return "", NewCryptoUnavailableError(err)
	}

	return string(out), nil
}

// Verify reports whether password matches hash. Comparison is constant time
// and malformed hashes simply fail.
func (h *BcryptHasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
