package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenServiceImpl signs HS256 tokens with a single process wide secret.
//
// Tokens carry no expiry unless tokenExpiration is positive.
// TODO: default TOKEN_EXPIRATION to a finite lifetime once clients handle refresh.
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration time.Duration
	issuer          string
	logger          Logger
	now             func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceOption customizes a TokenServiceImpl
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenExpiration sets the lifetime of issued tokens. Zero disables expiry.
func WithTokenExpiration(d time.Duration) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.tokenExpiration = d
	}
}

// WithTokenIssuer sets the iss claim and requires it on verification.
func WithTokenIssuer(issuer string) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.issuer = issuer
	}
}

// WithTokenLogger sets the logger.
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.logger = logger
	}
}

// WithTokenClock overrides the time source.
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService creates a new TokenService instance. The signing key is
// loaded once at startup and must not be empty.
func NewTokenService(signingKey []byte, opts ...TokenServiceOption) (*TokenServiceImpl, error) {
	if len(signingKey) == 0 {
		return nil, goerrors.New("token signing key must not be empty", goerrors.CategoryBadInput)
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	ts := &TokenServiceImpl{
		signingKey: key,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}
	ts.logger = normalizeLogger(ts.logger)

	return ts, nil
}

// Issue signs the given claims. UserID must reference a persisted user.
func (ts *TokenServiceImpl) Issue(claims TokenClaims) (string, error) {
	if claims.UserID == "" {
		return "", goerrors.New("token claims require a user id", goerrors.CategoryInternal)
	}

	now := ts.now()
	jwtClaims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   ts.issuer,
			Subject:  claims.UserID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UID:      claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
	}

	if ts.tokenExpiration > 0 {
		jwtClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.tokenExpiration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Verify checks the signature and claims of tokenString. Every failure is
// reported as an InvalidToken error.
func (ts *TokenServiceImpl) Verify(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		reason := tokenFailureReason(err)
		ts.logger.Debug("token verification failed", "reason", reason, "error", err)
		return nil, newInvalidTokenError(err, reason)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	out := claims.tokenClaims()
	if out.UserID == "" {
		return nil, newInvalidTokenError(fmt.Errorf("token has no subject"), "missing_subject")
	}

	return out, nil
}

func tokenFailureReason(err error) string {
	switch {
	case goerrors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case goerrors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature"
	case goerrors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "issuer"
	default:
		return "invalid"
	}
}
