package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/goliatone/go-credentials"
	"github.com/goliatone/go-credentials/httpapi"
	"github.com/goliatone/go-credentials/middleware/jwtware"
	"github.com/goliatone/go-credentials/repository"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()

	store, err := repository.OpenStore(ctx, "sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })

	logger := auth.NopLogger()
	tokens, err := auth.NewTokenService([]byte("test-secret"), auth.WithTokenLogger(logger))
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	register := auth.NewRegisterUserHandler(store, hasher, tokens, auth.WithFlowLogger(logger))
	login := auth.NewLoginUserHandler(store, hasher, tokens, auth.WithFlowLogger(logger))
	gate := jwtware.New(jwtware.Config{
		TokenValidator: tokens,
		ErrorHandler: func(_ router.Context, err error) error {
			return err
		},
	})

	app := httpapi.NewApp(logger)
	srv := httpapi.NewServer(app)
	httpapi.RegisterAuthRoutes(srv.Router(), httpapi.NewAuthController(register, login, gate,
		httpapi.WithControllerLogger(logger),
	))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

var jane = map[string]string{
	"fullName": "Jane Doe",
	"email":    "jane@x.com",
	"password": "abcdef",
}

func TestRegisterLoginProfile(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/users/register", jane)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jane@x.com", data["email"])
	assert.Equal(t, "Jane Doe", data["fullName"])
	assert.NotEmpty(t, data["id"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "passwordHash")

	resp, body = doJSON(t, app, http.MethodPost, "/users/login", map[string]string{
		"email":    "jane@x.com",
		"password": "abcdef",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Hello, welcome Jane Doe. Logged in successfully!", body["message"])

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, token, resp.Header.Get("auth-token"))

	resp, body = doJSON(t, app, http.MethodGet, "/user/profile", nil, "auth-token", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	identity, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jane@x.com", identity["email"])
	assert.Equal(t, "Jane Doe", identity["fullName"])
	assert.Equal(t, data["id"], identity["id"])
}

func TestRoutesMountedUnderAPIPrefix(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/register", jane)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users/login", map[string]string{
		"email":    "jane@x.com",
		"password": "abcdef",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/user/profile", nil, "auth-token", body["token"].(string))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterValidationErrors(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/users/register", map[string]string{
		"fullName": "ab",
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 3)

	var fields []string
	for _, e := range errs {
		entry := e.(map[string]any)
		fields = append(fields, entry["field"].(string))
		assert.NotEmpty(t, entry["message"])
	}
	assert.Equal(t, []string{"fullName", "email", "password"}, fields)
}

func TestRegisterDuplicate(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/users/register", jane)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/users/register", jane)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User with the email id already exists.", body["message"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/users/register", jane)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	wrongResp, wrongBody := doJSON(t, app, http.MethodPost, "/users/login", map[string]string{
		"email":    "jane@x.com",
		"password": "wrong-password",
	})
	unknownResp, unknownBody := doJSON(t, app, http.MethodPost, "/users/login", map[string]string{
		"email":    "nobody@x.com",
		"password": "abcdef",
	})

	assert.Equal(t, http.StatusNotFound, wrongResp.StatusCode)
	assert.Equal(t, wrongResp.StatusCode, unknownResp.StatusCode)
	assert.Equal(t, wrongBody, unknownBody)
	assert.Equal(t, "Invalid email or password.", wrongBody["message"])
	assert.Empty(t, wrongResp.Header.Get("auth-token"))
}

func TestLoginValidationErrors(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/users/login", map[string]string{
		"email": "jane@x.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "Password is required. Must be at least six characters.", errs[0].(map[string]any)["message"])
}

func TestProfileRejections(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/user/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access denied. No token provided.", body["message"])

	resp, body = doJSON(t, app, http.MethodGet, "/user/profile", nil, "auth-token", "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token.", body["message"])
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewBufferString("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Error parsing body", body["message"])
}

func TestWelcome(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to the auth system", string(raw))
}
