package repository

import (
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Driver identifies the backend selected from a database URI.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongodb"
)

// DriverFromURI picks the backend from the URI scheme.
//
//	sqlite://auth.db, sqlite://:memory:, file:auth.db  -> sqlite
//	postgres://..., postgresql://...                   -> postgres
//	mongodb://..., mongodb+srv://...                   -> mongodb
func DriverFromURI(uri string) (Driver, error) {
	lower := strings.ToLower(strings.TrimSpace(uri))
	switch {
	case lower == "":
		return "", goerrors.New("database uri must not be empty", goerrors.CategoryBadInput)
	case strings.HasPrefix(lower, "sqlite://"),
		strings.HasPrefix(lower, "file:"),
		lower == ":memory:":
		return DriverSQLite, nil
	case strings.HasPrefix(lower, "postgres://"),
		strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(lower, "mongodb://"),
		strings.HasPrefix(lower, "mongodb+srv://"):
		return DriverMongo, nil
	default:
		return "", goerrors.New("unsupported database uri scheme", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{
				"uri": redactURI(uri),
			})
	}
}

// OpenDB opens a bun database for a sqlite or postgres URI.
func OpenDB(uri string) (*bun.DB, error) {
	driver, err := DriverFromURI(uri)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverSQLite:
		dsn := sqliteDSN(uri)
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open sqlite database")
		}
		if strings.Contains(dsn, ":memory:") {
			// every pooled connection would get its own empty database
			sqldb.SetMaxOpenConns(1)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil

	case DriverPostgres:
		config, err := pgx.ParseConfig(uri)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse postgres uri")
		}
		sqldb := stdlib.OpenDB(*config)
		return bun.NewDB(sqldb, pgdialect.New()), nil

	default:
		return nil, goerrors.New("uri does not name a sql database", goerrors.CategoryBadInput).
			WithMetadata(map[string]any{
				"driver": string(driver),
			})
	}
}

func sqliteDSN(uri string) string {
	uri = strings.TrimSpace(uri)
	if len(uri) >= len("sqlite://") && strings.EqualFold(uri[:len("sqlite://")], "sqlite://") {
		return uri[len("sqlite://"):]
	}
	return uri
}

func redactURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
