package repository

import (
	"context"

	auth "github.com/goliatone/go-credentials"
	"github.com/goliatone/go-credentials/repository/mongodb"
)

// Store is a UserStore that owns its connection.
type Store interface {
	auth.UserStore
	// Migrate creates the schema or indexes that enforce email uniqueness.
	Migrate(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*Users)(nil)
	_ Store = (*mongodb.Users)(nil)
)

// OpenStore opens the store named by uri: sqlite, postgres or mongodb.
func OpenStore(ctx context.Context, uri string) (Store, error) {
	driver, err := DriverFromURI(uri)
	if err != nil {
		return nil, err
	}

	if driver == DriverMongo {
		store, err := mongodb.Connect(ctx, uri)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	db, err := OpenDB(uri)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, NewConnectionError(err, driver)
	}

	return NewUsers(db), nil
}
