package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	auth "github.com/goliatone/go-credentials"
)

// Users is the bun backed auth.UserStore. Email uniqueness is enforced by
// the users_email_key index, not by a lookup.
type Users struct {
	repository.Repository[*auth.User]
	db *bun.DB
}

var _ auth.UserStore = (*Users)(nil)

// NewUsers returns a store over db. Run Migrate before first use.
func NewUsers(db *bun.DB) *Users {
	repo := repository.NewRepository[*auth.User](db, repository.ModelHandlers[*auth.User]{
		NewRecord: func() *auth.User { return &auth.User{} },
		GetID: func(u *auth.User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *auth.User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &Users{
		Repository: repo,
		db:         db,
	}
}

// DB exposes the underlying connection.
func (u *Users) DB() *bun.DB {
	return u.db
}

func (u *Users) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return u.FindByEmailTx(ctx, u.db, email)
}

// FindByEmailTx matches email exactly. Case is preserved as stored.
func (u *Users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	record := &auth.User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrRecordNotFound
		}
		return nil, err
	}

	return record, nil
}

func (u *Users) Insert(ctx context.Context, user *auth.User) (*auth.User, error) {
	return u.InsertTx(ctx, u.db, user)
}

// InsertTx creates the user. A unique violation on email or id is
// reported as auth.ErrDuplicateRecord.
func (u *Users) InsertTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	saved, err := u.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, auth.ErrDuplicateRecord
		}
		return nil, err
	}

	return saved, nil
}

// Migrate creates the users table and its unique email index.
func (u *Users) Migrate(ctx context.Context) error {
	return Migrate(ctx, u.db)
}

// Close releases the connection pool.
func (u *Users) Close() error {
	return u.db.Close()
}
