package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted account. It is created once per email and never
// mutated by this package.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr" json:"-"`
	ID            uuid.UUID `bun:"id,pk" json:"id"`
	FullName      string    `bun:"full_name,notnull" json:"fullName"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// UserSummary is the public view of a User. It never carries the hash.
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Summary returns the public view of the user
func (u *User) Summary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:       u.ID.String(),
		FullName: u.FullName,
		Email:    u.Email,
	}
}
