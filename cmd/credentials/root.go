package main

import (
	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-credentials"
)

// Global flags available to all subcommands. They override the environment.
var (
	dbURI    string
	logLevel string
)

// NewRootCmd creates the root command for the credentials CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Credentials - user registration and token login service",
		Long: `Credentials registers users with bcrypt hashed passwords, logs them in
with signed bearer tokens and guards protected routes.

Configuration is read from the environment (DB_URI, ACCESS_TOKEN_SECRET,
PORT, ...). Flags take precedence.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&dbURI, "db-uri", "", "database uri (sqlite://, postgres://, mongodb://)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadOptions reads the environment and applies any flags that were set.
func loadOptions(cmd *cobra.Command) (auth.Options, error) {
	opts, err := auth.LoadOptions()
	if err != nil {
		return opts, err
	}

	if f := cmd.Flags().Lookup("db-uri"); f != nil && f.Changed {
		opts.DatabaseURI = dbURI
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		opts.LogLevel = logLevel
	}

	return opts, nil
}
