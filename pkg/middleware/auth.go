package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/security/auth"
	"github.com/petrel-io/petrel/pkg/session"
)

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// CookieAccessToken is the cookie fallback for browser clients that cannot
// set an Authorization header.
const CookieAccessToken = "access_token"

// extractToken pulls the bearer token from the Authorization header or the
// access_token cookie.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(CookieAccessToken); err == nil {
		return cookie
	}
	return ""
}

// Authenticate resolves the caller's identity from their access token and
// session. It never rejects a request: on any failure the request simply
// proceeds unauthenticated and the downstream Guard produces the denial.
// A token whose session no longer exists counts as unauthenticated, which
// is how logout revokes otherwise-valid tokens.
func Authenticate(verifier TokenVerifier, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		claims, err := verifier.Verify(ctx, token)
		if err != nil {
			c.Next()
			return
		}

		sess, found, err := sessions.Get(ctx, claims.ID)
		if err != nil || !found {
			c.Next()
			return
		}

		// best effort; a failed touch must not fail the request
		_ = sessions.Touch(ctx, sess.Token, time.Now())

		principal := access.Principal{
			ID:            claims.Subject,
			Username:      claims.Username,
			Authenticated: true,
			SuperUser:     claims.SuperUser,
		}
		SetPrincipal(c, principal)
		SetSessionToken(c, sess.Token)

		ctx = auth.ContextWithClaims(ctx, claims)
		ctx = auth.ContextWithToken(ctx, token)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
