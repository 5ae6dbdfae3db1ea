package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"

	auth "github.com/goliatone/go-credentials"
	"github.com/goliatone/go-credentials/httpapi"
	"github.com/goliatone/go-credentials/metrics"
	"github.com/goliatone/go-credentials/middleware/jwtware"
	"github.com/goliatone/go-credentials/repository"
)

type server struct {
	app   *fiber.App
	store repository.Store
}

// newServer wires the store, flows, auth gate and routes from opts. The
// schema is migrated on start so the unique email constraint always exists.
func newServer(ctx context.Context, opts auth.Options, logger auth.Logger, reg *prometheus.Registry) (*server, error) {
	store, err := repository.OpenStore(ctx, opts.DatabaseURI)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	tokens, err := auth.NewTokenService([]byte(opts.SigningKey), opts.TokenServiceOptions(logger)...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	hasher := auth.NewBcryptHasher(opts.BcryptCost)
	sink := auth.MultiActivitySink{
		auth.NewLoggingActivitySink(logger),
		metrics.NewSink(reg),
	}
	flowOpts := opts.FlowOptions(logger, sink)

	register := auth.NewRegisterUserHandler(store, hasher, tokens, flowOpts...)
	login := auth.NewLoginUserHandler(store, hasher, tokens, flowOpts...)

	gate := jwtware.New(jwtware.Config{
		TokenValidator: tokens,
		TokenLookup:    "header:" + opts.TokenHeader + ",header:Authorization",
		ErrorHandler: func(_ router.Context, err error) error {
			return err
		},
	})

	app := httpapi.NewApp(logger)
	app.Get("/metrics", metrics.Handler(reg))

	controller := httpapi.NewAuthController(register, login, gate,
		httpapi.WithControllerLogger(logger),
		httpapi.WithTokenHeader(opts.TokenHeader),
	)
	httpapi.RegisterAuthRoutes(httpapi.NewServer(app).Router(), controller)

	return &server{
		app:   app,
		store: store,
	}, nil
}

func (s *server) Close() error {
	return s.store.Close()
}
