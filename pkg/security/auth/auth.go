// Package auth defines the authentication primitives shared by the token
// issuer and the HTTP middleware: verified claims, issued tokens, and
// context plumbing for both.
package auth

// Claims carries the verified identity extracted from an access token.
type Claims struct {
	// Subject is the principal (user) ID.
	Subject string

	// Username is the principal's login name.
	Username string

	// SuperUser marks an unconditional grant of every permission.
	SuperUser bool

	// ID is the token ID (jti). It doubles as the session token, tying
	// token validity to session existence.
	ID string

	// Issuer is the token issuer.
	Issuer string

	// IssuedAt is the issue time (Unix seconds).
	IssuedAt int64

	// ExpiresAt is the expiry time (Unix seconds).
	ExpiresAt int64
}

// Token is an issued access token as returned to clients.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
	ExpiresIn   int64  `json:"expires_in"`
}
