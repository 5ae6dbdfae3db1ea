package auth

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// RegisterUserMessage is the registration payload
type RegisterUserMessage struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate runs every rule and reports all failing fields.
func (e RegisterUserMessage) Validate() error {
	err := validation.ValidateStruct(&e,
		validation.Field(&e.FullName, fullNameRules()...),
		validation.Field(&e.Email, emailRules()...),
		validation.Field(&e.Password, passwordRules(registerPasswordMsg)...),
	)
	return toValidationError(err, "fullName", "email", "password")
}

func (e RegisterUserMessage) normalized() RegisterUserMessage {
	e.FullName = strings.TrimSpace(e.FullName)
	e.Email = strings.TrimSpace(e.Email)
	return e
}

// RegisterUserResult is returned on a successful registration.
type RegisterUserResult struct {
	User  UserSummary `json:"data"`
	Token string      `json:"token"`
}

// RegisterUserHandler validates input, enforces uniqueness, hashes the
// password, persists the user and issues a token for the saved record.
type RegisterUserHandler struct {
	flowDeps
}

// NewRegisterUserHandler returns a registration handler.
func NewRegisterUserHandler(store UserStore, hasher PasswordHasher, tokens TokenService, opts ...FlowOption) *RegisterUserHandler {
	return &RegisterUserHandler{flowDeps: newFlowDeps(store, hasher, tokens, opts...)}
}

// Execute registers a new user and returns it with a freshly issued token.
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event.normalized())
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResult, error) {
	if err := event.Validate(); err != nil {
		h.emit(ctx, ActivityEventRegisterFailure, "", event.Email, ReasonValidation)
		return nil, err
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	// fast path only, the store's unique constraint is authoritative
	existing, err := h.store.FindByEmail(ctx, event.Email)
	switch {
	case err == nil && existing != nil:
		h.emit(ctx, ActivityEventRegisterFailure, existing.ID.String(), event.Email, ReasonDuplicateUser)
		return nil, ErrDuplicateUser
	case err != nil && !goerrors.Is(err, ErrRecordNotFound):
		h.logger.Error("register user lookup failed", "error", err)
		h.emit(ctx, ActivityEventRegisterFailure, "", event.Email, ReasonPersistence)
		return nil, NewPersistenceError(err, "failed to check existing user")
	}

	hash, err := h.hasher.Hash(event.Password)
	if err != nil {
		h.logger.Error("register user hash password failed", "error", err)
		h.emit(ctx, ActivityEventRegisterFailure, "", event.Email, hashFailureReason(err))
		return nil, err
	}

	user := &User{
		FullName:     event.FullName,
		Email:        event.Email,
		PasswordHash: hash,
		CreatedAt:    h.now().UTC(),
	}
	if h.useHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			user.ID = id
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	saved, err := h.store.Insert(ctx, user)
	if err != nil {
		if goerrors.Is(err, ErrDuplicateRecord) {
			h.emit(ctx, ActivityEventRegisterFailure, "", event.Email, ReasonDuplicateUser)
			return nil, ErrDuplicateUser
		}
		h.logger.Error("register user insert failed", "error", err)
		h.emit(ctx, ActivityEventRegisterFailure, "", event.Email, ReasonPersistence)
		return nil, NewPersistenceError(err, "could not create user")
	}

	if saved == nil || saved.ID == uuid.Nil {
		h.emit(ctx, ActivityEventRegisterFailure, "", event.Email, ReasonPersistence)
		return nil, NewPersistenceError(goerrors.New("store returned no identity", goerrors.CategoryInternal), "could not create user")
	}

	token, err := h.tokens.Issue(ClaimsFromUser(saved))
	if err != nil {
		h.logger.Error("register user token issue failed", "error", err)
		h.emit(ctx, ActivityEventRegisterFailure, saved.ID.String(), saved.Email, ReasonToken)
		return nil, err
	}

	h.emit(ctx, ActivityEventRegisterSuccess, saved.ID.String(), saved.Email, "")

	return &RegisterUserResult{
		User:  saved.Summary(),
		Token: token,
	}, nil
}

func hashFailureReason(err error) string {
	if HasTextCode(err, TextCodeCryptoUnavailable) {
		return ReasonCrypto
	}
	return ReasonValidation
}
