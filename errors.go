package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeValidation         = "VALIDATION_ERROR"
	TextCodeDuplicateUser      = "DUPLICATE_USER"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeMissingToken       = "MISSING_TOKEN"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodePersistence        = "PERSISTENCE_ERROR"
	TextCodeCryptoUnavailable  = "CRYPTO_UNAVAILABLE"
	TextCodeRecordNotFound     = "RECORD_NOT_FOUND"
	TextCodeDuplicateRecord    = "DUPLICATE_RECORD"
)

// loginFailureMessage is shared by both login failure kinds so the response
// never reveals whether the email is registered.
const loginFailureMessage = "Invalid email or password."

// ErrDuplicateUser is returned when the email is already registered
var ErrDuplicateUser = goerrors.New("User with the email id already exists.", goerrors.CategoryConflict).
	WithCode(http.StatusBadRequest).
	WithTextCode(TextCodeDuplicateUser)

// ErrUserNotFound is returned by login when no user owns the email.
var ErrUserNotFound = goerrors.New(loginFailureMessage, goerrors.CategoryNotFound).
	WithCode(http.StatusNotFound).
	WithTextCode(TextCodeUserNotFound)

// ErrInvalidCredentials is returned by login when the password does not match.
var ErrInvalidCredentials = goerrors.New(loginFailureMessage, goerrors.CategoryAuth).
	WithCode(http.StatusNotFound).
	WithTextCode(TextCodeInvalidCredentials)

// ErrMissingToken request carried no token
var ErrMissingToken = goerrors.New("Access denied. No token provided.", goerrors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(TextCodeMissingToken)

// ErrInvalidToken token failed signature, format or claim checks
var ErrInvalidToken = goerrors.New("Invalid token.", goerrors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(TextCodeInvalidToken)

// ErrEmptyPassword is returned when hashing an empty string
var ErrEmptyPassword = goerrors.New("password must not be empty", goerrors.CategoryBadInput).
	WithCode(http.StatusBadRequest)

// ErrRecordNotFound is returned by a UserStore when no record matches.
var ErrRecordNotFound = goerrors.New("user record not found", goerrors.CategoryNotFound).
	WithCode(http.StatusNotFound).
	WithTextCode(TextCodeRecordNotFound)

// ErrDuplicateRecord is returned by a UserStore when an insert violates the
// unique email constraint.
var ErrDuplicateRecord = goerrors.New("user record already exists", goerrors.CategoryConflict).
	WithCode(http.StatusConflict).
	WithTextCode(TextCodeDuplicateRecord)

// FieldError describes a single failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const fieldErrorsKey = "fields"

// NewValidationError builds a ValidationError carrying every failing field.
func NewValidationError(fields []FieldError) *goerrors.Error {
	return goerrors.New("validation failed", goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeValidation).
		WithMetadata(map[string]any{
			fieldErrorsKey: fields,
		})
}

// ValidationFields returns the field errors of a ValidationError, or nil.
func ValidationFields(err error) []FieldError {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.TextCode != TextCodeValidation {
		return nil
	}
	fields, _ := richErr.Metadata[fieldErrorsKey].([]FieldError)
	return fields
}

// NewPersistenceError wraps a store failure. It is never retried.
func NewPersistenceError(err error, message string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithCode(http.StatusInternalServerError).
		WithTextCode(TextCodePersistence)
}

// NewCryptoUnavailableError wraps a failure of the random source.
func NewCryptoUnavailableError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "secure random source unavailable").
		WithCode(http.StatusInternalServerError).
		WithTextCode(TextCodeCryptoUnavailable)
}

func newInvalidTokenError(err error, reason string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryAuth, ErrInvalidToken.Message).
		WithCode(http.StatusUnauthorized).
		WithTextCode(TextCodeInvalidToken).
		WithMetadata(map[string]any{
			"reason": reason,
		})
}

// HasTextCode reports whether err, or the first rich error it wraps, carries
// the given text code.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsInvalidToken reports whether err rejects a token.
func IsInvalidToken(err error) bool {
	return HasTextCode(err, TextCodeInvalidToken)
}

// IsLoginFailure reports whether err is one of the two login failure kinds.
func IsLoginFailure(err error) bool {
	return HasTextCode(err, TextCodeUserNotFound) || HasTextCode(err, TextCodeInvalidCredentials)
}
