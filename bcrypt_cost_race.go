//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost is lowered for race-enabled builds so test suites can
// run with strict timeouts.
const DefaultPasswordCost = bcrypt.DefaultCost

func passwordHashCost() int {
	return DefaultPasswordCost
}
