package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// Options holds the process wide configuration.
type Options struct {
	DatabaseURI     string        `env:"DB_URI"`
	SigningKey      string        `env:"ACCESS_TOKEN_SECRET"`
	Port            int           `env:"PORT"             envDefault:"5000"`
	TokenExpiration time.Duration `env:"TOKEN_EXPIRATION" envDefault:"0s"`
	TokenIssuer     string        `env:"TOKEN_ISSUER"`
	TokenHeader     string        `env:"TOKEN_HEADER"     envDefault:"auth-token"`
	BcryptCost      int           `env:"BCRYPT_COST"      envDefault:"14"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"10s"`
	UseHashid       bool          `env:"USE_HASHID"       envDefault:"false"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"       envDefault:"json"`
}

// LoadOptions reads Options from the process environment.
func LoadOptions() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return opts, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse environment")
	}
	return opts, nil
}

// LoadOptionsFrom reads Options from the given variables instead of the
// process environment.
func LoadOptionsFrom(environ map[string]string) (Options, error) {
	var opts Options
	if err := env.ParseWithOptions(&opts, env.Options{Environment: environ}); err != nil {
		return opts, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse environment")
	}
	return opts, nil
}

// Validate checks the options needed to start the service.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.DatabaseURI, validation.Required),
		validation.Field(&o.SigningKey, validation.Required),
		validation.Field(&o.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&o.TokenHeader, validation.Required),
		validation.Field(&o.BcryptCost, validation.Min(4), validation.Max(31)),
		validation.Field(&o.TokenExpiration, validation.Min(time.Duration(0))),
		validation.Field(&o.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&o.LogFormat, validation.In("json", "console")),
	)
}

// TokenServiceOptions maps Options onto TokenService options.
func (o Options) TokenServiceOptions(logger Logger) []TokenServiceOption {
	return []TokenServiceOption{
		WithTokenExpiration(o.TokenExpiration),
		WithTokenIssuer(o.TokenIssuer),
		WithTokenLogger(logger),
	}
}

// FlowOptions maps Options onto flow options.
func (o Options) FlowOptions(logger Logger, sink ActivitySink) []FlowOption {
	return []FlowOption{
		WithFlowLogger(logger),
		WithActivitySink(sink),
		WithRequestTimeout(o.RequestTimeout),
		WithHashidIDs(o.UseHashid),
	}
}
