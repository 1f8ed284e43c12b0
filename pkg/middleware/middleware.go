// Package middleware provides the gin middleware chain for the API server:
// request IDs, structured request logging, panic recovery, CORS, token
// authentication and access-gate enforcement.
//
// Authentication and enforcement are split on purpose. Authenticate only
// resolves the caller's identity and never rejects; Guard runs the access
// gate and is the single place denial responses are written. Handlers
// behind a Guard can assume an authenticated, authorized caller.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/petrel-io/petrel/pkg/access"
)

// Gin context keys.
const (
	// PrincipalKey stores the resolved access.Principal.
	principalKey = "petrel/principal"

	// sessionTokenKey stores the caller's session token (the jti claim).
	sessionTokenKey = "petrel/session-token"
)

// SetPrincipal stores the resolved principal on the request context.
func SetPrincipal(c *gin.Context, p access.Principal) {
	c.Set(principalKey, p)
}

// GetPrincipal returns the resolved principal. The zero Principal is
// returned for unauthenticated requests.
func GetPrincipal(c *gin.Context) access.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Principal{}
}

// SetSessionToken stores the caller's session token on the request context.
func SetSessionToken(c *gin.Context, token string) {
	c.Set(sessionTokenKey, token)
}

// GetSessionToken returns the caller's session token, or "".
func GetSessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}
