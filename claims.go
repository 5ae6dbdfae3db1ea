package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the identity embedded in every issued token. Once verified
// and attached to a request it is the authenticated identity seen by
// protected handlers.
type TokenClaims struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// ClaimsFromUser derives token claims from a persisted user.
func ClaimsFromUser(user *User) TokenClaims {
	if user == nil {
		return TokenClaims{}
	}
	return TokenClaims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
	}
}

// JWTClaims is the signed wire form of TokenClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func (c *JWTClaims) tokenClaims() *TokenClaims {
	out := &TokenClaims{
		UserID:   c.UID,
		Email:    c.Email,
		FullName: c.FullName,
	}
	if out.UserID == "" {
		out.UserID = c.Subject
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Unix()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Unix()
	}
	return out
}
