package auth

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// LoginUserMessage is the login payload
type LoginUserMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e LoginUserMessage) Type() string { return "user.login" }

// Validate runs every rule and reports all failing fields.
func (e LoginUserMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.Email, emailRules()...),
		validation.Field(&e.Password, passwordRules(loginPasswordMsg)...),
	)
	return toValidationError(err, "email", "password")
}

// LoginUserResult is returned on a successful login.
type LoginUserResult struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"-"`
}

// LoginUserHandler checks credentials and issues a token.
type LoginUserHandler struct {
	flowDeps
}

// NewLoginUserHandler returns a login handler.
func NewLoginUserHandler(store UserStore, hasher PasswordHasher, tokens TokenService, opts ...FlowOption) *LoginUserHandler {
	return &LoginUserHandler{flowDeps: newFlowDeps(store, hasher, tokens, opts...)}
}

// Execute checks the credentials and returns a greeting with a new token.
func (h *LoginUserHandler) Execute(ctx context.Context, event LoginUserMessage) (*LoginUserResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user login",
		)
	default:
		event.Email = strings.TrimSpace(event.Email)
		return h.execute(ctx, event)
	}
}

func (h *LoginUserHandler) execute(ctx context.Context, event LoginUserMessage) (*LoginUserResult, error) {
	if err := event.Validate(); err != nil {
		h.emit(ctx, ActivityEventLoginFailure, "", event.Email, ReasonValidation)
		return nil, err
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	user, err := h.store.FindByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.Is(err, ErrRecordNotFound) {
			h.emit(ctx, ActivityEventLoginFailure, "", event.Email, ReasonUserNotFound)
			return nil, ErrUserNotFound
		}
		h.logger.Error("login user lookup failed", "error", err)
		h.emit(ctx, ActivityEventLoginFailure, "", event.Email, ReasonPersistence)
		return nil, NewPersistenceError(err, "failed to retrieve user during login")
	}
	if user == nil {
		h.emit(ctx, ActivityEventLoginFailure, "", event.Email, ReasonUserNotFound)
		return nil, ErrUserNotFound
	}

	if !h.hasher.Verify(event.Password, user.PasswordHash) {
		h.emit(ctx, ActivityEventLoginFailure, user.ID.String(), user.Email, ReasonInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, err := h.tokens.Issue(ClaimsFromUser(user))
	if err != nil {
		h.logger.Error("login user token issue failed", "error", err)
		h.emit(ctx, ActivityEventLoginFailure, user.ID.String(), user.Email, ReasonToken)
		return nil, err
	}

	h.emit(ctx, ActivityEventLoginSuccess, user.ID.String(), user.Email, "")

	return &LoginUserResult{
		Message: fmt.Sprintf("Hello, welcome %s. Logged in successfully!", user.FullName),
		Token:   token,
		User:    user.Summary(),
	}, nil
}
