// Package jwt issues and verifies HMAC-signed access tokens. Every token
// carries a generated jti that doubles as the session token, so revocation
// is a session delete rather than a token blacklist.
package jwt

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/petrel-io/petrel/pkg/errors"
	jwtopts "github.com/petrel-io/petrel/pkg/options/jwt"
	"github.com/petrel-io/petrel/pkg/security/auth"
)

// Identity is what gets baked into a token at sign time.
type Identity struct {
	PrincipalID string
	Username    string
	SuperUser   bool
}

// JWT signs and verifies access tokens.
type JWT struct {
	opts   *jwtopts.Options
	method jwt.SigningMethod
}

// New creates a token issuer from the given options.
func New(opts *jwtopts.Options) (*JWT, error) {
	if err := opts.Complete(); err != nil {
		return nil, fmt.Errorf("complete jwt options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate jwt options: %w", err)
	}

	method := jwt.GetSigningMethod(opts.SigningMethod)
	if method == nil {
		return nil, fmt.Errorf("unsupported signing method: %s", opts.SigningMethod)
	}

	return &JWT{opts: opts, method: method}, nil
}

// Expiry returns the configured token lifetime.
func (j *JWT) Expiry() time.Duration {
	return j.opts.Expired
}

type customClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Super    bool   `json:"super,omitempty"`
}

// Sign creates a new token for the identity. The returned token ID is the
// jti claim; callers register it as the session token.
func (j *JWT) Sign(_ context.Context, identity Identity) (*auth.Token, string, error) {
	now := time.Now()
	expiresAt := now.Add(j.opts.Expired)
	tokenID := uuid.NewString()

	claims := &customClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.PrincipalID,
			Issuer:    j.opts.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        tokenID,
		},
		Username: identity.Username,
		Super:    identity.SuperUser,
	}

	tokenString, err := jwt.NewWithClaims(j.method, claims).SignedString([]byte(j.opts.Key))
	if err != nil {
		return nil, "", errors.ErrInternal.WithCause(err).WithMessage("failed to sign token")
	}

	return &auth.Token{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Unix(),
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
	}, tokenID, nil
}

// Verify validates the token signature and claims.
func (j *JWT) Verify(_ context.Context, tokenString string) (*auth.Claims, error) {
	if tokenString == "" {
		return nil, errors.ErrInvalidToken.WithMessage("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &customClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != j.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.opts.Key), nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}
	if !token.Valid {
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*customClaims)
	if !ok {
		return nil, errors.ErrInvalidToken.WithMessage("invalid claims type")
	}

	out := &auth.Claims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		SuperUser: claims.Super,
		ID:        claims.ID,
		Issuer:    claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}

// mapParseError converts golang-jwt parse failures to API errnos.
func mapParseError(err error) *errors.Errno {
	var verr *jwt.ValidationError
	if stderrors.As(err, &verr) {
		if verr.Errors&jwt.ValidationErrorExpired != 0 {
			return errors.ErrTokenExpired
		}
	}
	return errors.ErrInvalidToken.WithCause(err)
}
