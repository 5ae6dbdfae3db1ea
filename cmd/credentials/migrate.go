package main

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-credentials/repository"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the users schema",
		Long: `Create the users table and its unique email index (sqlite, postgres),
or the unique email index (mongodb).`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if opts.DatabaseURI == "" {
		return goerrors.New("DB_URI environment variable or --db-uri is required", goerrors.CategoryBadInput)
	}

	ctx := context.Background()

	cmd.Println("Connecting to database...")
	store, err := repository.OpenStore(ctx, opts.DatabaseURI)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "connect to database")
	}
	defer store.Close()

	cmd.Println("Running migrations...")
	if err := store.Migrate(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "run migrations")
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
