//go:build !race

package auth

// DefaultPasswordCost is the bcrypt work factor used when none is configured.
const DefaultPasswordCost = 14

func passwordHashCost() int {
	return DefaultPasswordCost
}
