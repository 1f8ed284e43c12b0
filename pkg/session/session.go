// Package session provides session storage backends. Both implementations
// satisfy the read interface the access engine consumes and add the write
// operations the auth service needs (create on login, revoke on logout,
// activity refresh per request).
package session

import (
	"context"
	"time"

	"github.com/petrel-io/petrel/pkg/access"
)

// Store is the full session lifecycle interface.
type Store interface {
	access.SessionStore

	// Create registers a new session.
	Create(ctx context.Context, s access.Session) error

	// Get returns the session for the token, found=false when it does not
	// exist or has expired.
	Get(ctx context.Context, token string) (access.Session, bool, error)

	// Touch refreshes the session's last-activity time.
	Touch(ctx context.Context, token string, at time.Time) error

	// Delete removes the session for the token. Deleting an unknown token
	// is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteOthers removes every session of the principal except the one
	// identified by keepToken, returning the number removed. It backs the
	// "logout_other_sessions" client action.
	DeleteOthers(ctx context.Context, principalID, keepToken string) (int, error)

	// Close releases backend resources.
	Close() error
}
