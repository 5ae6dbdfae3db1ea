package jwtware

import (
	"strings"

	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-credentials"
)

var defaultTokenLookup = "header:auth-token"

// Config configures the auth gate.
type Config struct {
	// Filter skips the gate when it returns true.
	Filter func(router.Context) bool
	// SuccessHandler runs after the identity is attached. Defaults to the
	// wrapped handler.
	SuccessHandler router.HandlerFunc
	// ErrorHandler receives auth.ErrMissingToken or an InvalidToken error.
	ErrorHandler router.ErrorHandler
	// TokenValidator is required for token validation
	TokenValidator auth.TokenValidator
	// ContextKey names the local holding the identity.
	ContextKey string
	// TokenLookup is a comma separated list of "source:name" pairs, e.g.
	// "header:auth-token,header:Authorization,query:token,cookie:jwt".
	TokenLookup string
	// AuthScheme is required as a prefix on the Authorization header only.
	AuthScheme string
}

// New returns the auth gate middleware. Requests without a token are
// rejected with auth.ErrMissingToken, requests with a token that fails
// verification with an InvalidToken error. Neither reaches the wrapped handler.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return proceed(ctx, next)
			}

			raw := ExtractRawToken(ctx, extractors)
			if raw == "" {
				return cfg.ErrorHandler(ctx, auth.ErrMissingToken)
			}

			claims, err := cfg.TokenValidator.Verify(raw)
			if err != nil {
				if !auth.IsInvalidToken(err) {
					err = auth.ErrInvalidToken
				}
				return cfg.ErrorHandler(ctx, err)
			}
			if claims == nil {
				return cfg.ErrorHandler(ctx, auth.ErrInvalidToken)
			}

			ctx.Locals(cfg.ContextKey, claims)
			ctx.SetContext(auth.WithIdentity(ctx.Context(), claims))

			if cfg.SuccessHandler != nil {
				return cfg.SuccessHandler(ctx)
			}
			return proceed(ctx, next)
		}
	}
}

func proceed(ctx router.Context, next router.HandlerFunc) error {
	if next != nil {
		return next(ctx)
	}
	return ctx.Next()
}

// GetIdentity returns the identity attached by the gate.
func GetIdentity(ctx router.Context, key string) (*auth.TokenClaims, bool) {
	if key == "" {
		key = "user"
	}
	claims, ok := ctx.Locals(key).(*auth.TokenClaims)
	if !ok || claims == nil {
		return auth.IdentityFromContext(ctx.Context())
	}
	return claims, true
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx router.Context, err error) error {
			message := auth.ErrInvalidToken.Message
			if err == auth.ErrMissingToken {
				message = auth.ErrMissingToken.Message
			}
			return ctx.JSON(router.StatusUnauthorized, map[string]any{
				"success": false,
				"message": message,
			})
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// ExtractRawToken returns the first non empty token found by extractors.
func ExtractRawToken(ctx router.Context, extractors []TokenExtractor) string {
	for _, extractor := range extractors {
		if raw := extractor(ctx); raw != "" {
			return raw
		}
	}
	return ""
}

// TokenExtractor pulls a raw token out of a request.
type TokenExtractor func(ctx router.Context) string

func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:auth-token,header:Authorization,query:token,cookie:jwt
	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}
		source, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}

		switch source {
		case "header":
			if strings.EqualFold(name, router.HeaderAuthorization) {
				extractors = append(extractors, tokenFromAuthorization(name, authScheme))
			} else {
				extractors = append(extractors, tokenFromHeader(name))
			}
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		case "param":
			extractors = append(extractors, tokenFromParam(name))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		}
	}

	return extractors
}

// tokenFromHeader reads the raw header value.
func tokenFromHeader(header string) TokenExtractor {
	return func(ctx router.Context) string {
		return strings.TrimSpace(ctx.GetString(header, ""))
	}
}

// tokenFromAuthorization requires "<scheme> <token>".
func tokenFromAuthorization(header, authScheme string) TokenExtractor {
	authScheme = strings.TrimSpace(authScheme)
	l := len(authScheme)
	return func(ctx router.Context) string {
		a := ctx.GetString(header, "")
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			return strings.TrimSpace(a[l+1:])
		}
		return ""
	}
}

func tokenFromQuery(param string) TokenExtractor {
	return func(ctx router.Context) string {
		return ctx.Query(param, "")
	}
}

func tokenFromParam(param string) TokenExtractor {
	return func(ctx router.Context) string {
		return ctx.Param(param)
	}
}

func tokenFromCookie(name string) TokenExtractor {
	return func(ctx router.Context) string {
		return ctx.Cookies(name)
	}
}
