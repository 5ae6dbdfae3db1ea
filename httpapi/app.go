package httpapi

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-credentials"
)

const internalErrorMessage = "An unexpected server error occurred"

// NewApp returns a fiber app whose error handler renders the auth error
// taxonomy as JSON envelopes.
func NewApp(logger auth.Logger, cfg ...fiber.Config) *fiber.App {
	config := fiber.Config{
		DisableStartupMessage: true,
	}
	if len(cfg) > 0 {
		config = cfg[0]
	}
	config.ErrorHandler = ErrorHandler(logger)

	app := fiber.New(config)
	app.Use(recover.New())

	return app
}

// NewServer adapts app to a go-router server. Routes registered through
// its Router land on app, so app.Test and app.Listen see them.
func NewServer(app *fiber.App) router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		return app
	})
}

// ErrorHandler maps flow errors to status codes and response bodies.
func ErrorHandler(logger auth.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = auth.NopLogger()
	}

	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)

		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			logger.Info(
				"http error handler",
				"path", c.Path(),
				"status", status,
				"error", richErr.Message,
				"category", richErr.Category,
				"text_code", richErr.TextCode,
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
		} else if status >= http.StatusInternalServerError {
			logger.Error("http error handler", "path", c.Path(), "status", status, "error", err)
		}

		return c.Status(status).JSON(body)
	}
}

func errorResponse(err error) (int, fiber.Map) {
	if fields := auth.ValidationFields(err); fields != nil {
		return http.StatusBadRequest, fiber.Map{"errors": fields}
	}

	switch {
	case auth.HasTextCode(err, auth.TextCodeDuplicateUser):
		return http.StatusBadRequest, failure(auth.ErrDuplicateUser.Message)
	case auth.IsLoginFailure(err):
		return http.StatusNotFound, failure(auth.ErrInvalidCredentials.Message)
	case auth.HasTextCode(err, auth.TextCodeMissingToken):
		return http.StatusUnauthorized, failure(auth.ErrMissingToken.Message)
	case auth.IsInvalidToken(err):
		return http.StatusUnauthorized, failure(auth.ErrInvalidToken.Message)
	case auth.HasTextCode(err, auth.TextCodePersistence),
		auth.HasTextCode(err, auth.TextCodeCryptoUnavailable):
		return http.StatusInternalServerError, failure(internalErrorMessage)
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code >= 400 && richErr.Code < 500 {
		return richErr.Code, failure(richErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, failure(fiberErr.Message)
	}

	return http.StatusInternalServerError, failure(internalErrorMessage)
}

func failure(message string) fiber.Map {
	return fiber.Map{
		"success": false,
		"message": message,
	}
}
