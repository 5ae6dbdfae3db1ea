package httpapi

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-credentials"
	"github.com/goliatone/go-credentials/middleware/jwtware"
)

const (
	welcomeMessage   = "Welcome to the auth system"
	parseBodyMessage = "Error parsing body"
)

// AuthControllerRoutes holds the paths relative to each mount prefix.
type AuthControllerRoutes struct {
	Register string
	Login    string
	Profile  string
}

// AuthController serves registration, login and the protected profile.
type AuthController struct {
	Logger      auth.Logger
	Routes      *AuthControllerRoutes
	Prefixes    []string
	TokenHeader string
	ContextKey  string

	register *auth.RegisterUserHandler
	login    *auth.LoginUserHandler
	gate     router.MiddlewareFunc
}

type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger auth.Logger) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Logger = logger
		return a
	}
}

// WithTokenHeader sets the response header that echoes the login token.
func WithTokenHeader(header string) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		if header != "" {
			a.TokenHeader = header
		}
		return a
	}
}

// WithPrefixes replaces the mount prefixes. The empty prefix mounts at root.
func WithPrefixes(prefixes ...string) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Prefixes = prefixes
		return a
	}
}

// WithContextKey names the local the gate stores the identity under.
func WithContextKey(key string) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		if key != "" {
			a.ContextKey = key
		}
		return a
	}
}

// NewAuthController wires the flows and the auth gate into a controller.
func NewAuthController(register *auth.RegisterUserHandler, login *auth.LoginUserHandler, gate router.MiddlewareFunc, opts ...AuthControllerOption) *AuthController {
	if register == nil {
		panic("Missing RegisterUserHandler in auth controller...")
	}
	if login == nil {
		panic("Missing LoginUserHandler in auth controller...")
	}
	if gate == nil {
		panic("Missing auth gate in auth controller...")
	}

	a := &AuthController{
		Logger:      auth.NopLogger(),
		TokenHeader: "auth-token",
		ContextKey:  "user",
		Prefixes:    []string{"", "/api"},
		Routes: &AuthControllerRoutes{
			Register: "/users/register",
			Login:    "/users/login",
			Profile:  "/user/profile",
		},
		register: register,
		login:    login,
		gate:     gate,
	}

	for _, opt := range opts {
		a = opt(a)
	}

	if a.Logger == nil {
		a.Logger = auth.NopLogger()
	}

	return a
}

// RegisterAuthRoutes mounts the controller on every prefix plus the
// welcome route at "/".
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController) {
	app.Get("/", controller.Welcome).SetName("welcome.get")

	for _, prefix := range controller.Prefixes {
		r := app
		name := "auth"
		if prefix != "" {
			r = app.Group(prefix)
			name = strings.ReplaceAll(strings.Trim(prefix, "/"), "/", ".") + ".auth"
		}

		r.Post(controller.Routes.Register, controller.RegistrationCreate).
			SetName(name + ".register.post")
		r.Post(controller.Routes.Login, controller.LoginPost).
			SetName(name + ".login.post")
		r.Get(controller.Routes.Profile, controller.ProfileShow, controller.gate).
			SetName(name + ".profile.get")
	}
}

func (a *AuthController) Welcome(ctx router.Context) error {
	return ctx.SendString(welcomeMessage)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(auth.RegisterUserMessage)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return errParseBody(err)
	}

	res, err := a.register.Execute(ctx.Context(), *payload)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    res.User,
		"token":   res.Token,
	})
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(auth.LoginUserMessage)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login user parse payload", "error", err)
		return errParseBody(err)
	}

	res, err := a.login.Execute(ctx.Context(), *payload)
	if err != nil {
		return err
	}

	ctx.SetHeader(a.TokenHeader, res.Token)

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"message": res.Message,
		"token":   res.Token,
	})
}

func (a *AuthController) ProfileShow(ctx router.Context) error {
	identity, ok := jwtware.GetIdentity(ctx, a.ContextKey)
	if !ok {
		return auth.ErrMissingToken
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
		"data":    identity,
	})
}

func errParseBody(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, parseBodyMessage).
		WithCode(http.StatusBadRequest).
		WithTextCode("BAD_REQUEST_BODY")
}
