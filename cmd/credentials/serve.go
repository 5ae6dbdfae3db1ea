package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	auth "github.com/goliatone/go-credentials"
)

const shutdownTimeout = 10 * time.Second

var port int

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server exposing /users/register, /users/login,
/user/profile (also under /api) and /metrics.`,
		RunE: runServe,
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Changed {
		opts.Port = port
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	logger := auth.NewLogger(opts.LogLevel, opts.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, opts, logger, prometheus.NewRegistry())
	if err != nil {
		logger.Error("failed to build server", "error", err)
		return err
	}
	defer srv.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.app.Listen(fmt.Sprintf(":%d", opts.Port))
	}()

	logger.Info("server running", "port", opts.Port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return srv.app.ShutdownWithTimeout(shutdownTimeout)
}
