package auth

import "context"

// Logger is the structured logger used across the package. Arguments after
// the message are key value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// PasswordHasher produces and verifies salted adaptive password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(claims TokenClaims) (string, error)
	TokenValidator
}

// UserStore is the persistence collaborator. FindByEmail returns
// ErrRecordNotFound when no user owns the email. Insert must enforce email
// uniqueness itself and return ErrDuplicateRecord on conflict. A successful
// Insert must be visible to a later FindByEmail from the same process.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, user *User) (*User, error)
}
