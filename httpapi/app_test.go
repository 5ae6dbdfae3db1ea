package httpapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	auth "github.com/goliatone/go-credentials"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "duplicate", err: auth.ErrDuplicateUser, status: http.StatusBadRequest, message: "User with the email id already exists."},
		{name: "user not found", err: auth.ErrUserNotFound, status: http.StatusNotFound, message: "Invalid email or password."},
		{name: "invalid credentials", err: auth.ErrInvalidCredentials, status: http.StatusNotFound, message: "Invalid email or password."},
		{name: "missing token", err: auth.ErrMissingToken, status: http.StatusUnauthorized, message: "Access denied. No token provided."},
		{name: "invalid token", err: auth.ErrInvalidToken, status: http.StatusUnauthorized, message: "Invalid token."},
		{name: "persistence", err: auth.NewPersistenceError(errors.New("down"), "lookup failed"), status: http.StatusInternalServerError, message: internalErrorMessage},
		{name: "crypto", err: auth.NewCryptoUnavailableError(errors.New("no entropy")), status: http.StatusInternalServerError, message: internalErrorMessage},
		{name: "fiber", err: fiber.NewError(http.StatusBadRequest, "Error parsing body"), status: http.StatusBadRequest, message: "Error parsing body"},
		{name: "parse body", err: errParseBody(fiber.ErrUnprocessableEntity), status: http.StatusBadRequest, message: "Error parsing body"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, message: internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestErrorResponse_Validation(t *testing.T) {
	fields := []auth.FieldError{{Field: "email", Message: "Please provide a valid email."}}

	status, body := errorResponse(auth.NewValidationError(fields))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, fields, body["errors"])
}
