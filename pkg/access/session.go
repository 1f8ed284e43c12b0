package access

import (
	"context"
	"fmt"
)

// Tracker enforces the per-principal concurrent-session ceiling. It runs at
// the per-request gate and at new-session creation; it never evicts. A
// principal whose existing sessions exceed a freshly lowered ceiling keeps
// them until they expire naturally.
type Tracker struct {
	sessions SessionStore
	profiles ProfileStore

	// strictProfile controls what happens when the principal has no
	// profile. The compatible default is to allow (fail open); strict
	// deployments flip this to deny.
	strictProfile bool
}

// NewTracker creates a Tracker over the given stores.
func NewTracker(sessions SessionStore, profiles ProfileStore) *Tracker {
	return &Tracker{sessions: sessions, profiles: profiles}
}

// SetStrictProfile makes a missing profile count as a denial instead of the
// historical fail-open behavior.
func (t *Tracker) SetStrictProfile(strict bool) {
	t.strictProfile = strict
}

// CheckConcurrency reports whether the principal has room for one more
// active session, i.e. the active count is strictly below the profile's
// ceiling.
func (t *Tracker) CheckConcurrency(ctx context.Context, principal Principal) (bool, error) {
	profile, found, err := t.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return false, fmt.Errorf("concurrency check: %w", err)
	}
	if !found {
		return !t.strictProfile, nil
	}

	sessions, err := t.sessions.ActiveSessionsFor(ctx, principal.ID)
	if err != nil {
		return false, fmt.Errorf("concurrency check: %w", err)
	}
	return len(sessions) < profile.SessionLimit(), nil
}

// ActiveCount returns the number of currently active sessions for the
// principal. Exposed for the session-management endpoints.
func (t *Tracker) ActiveCount(ctx context.Context, principalID string) (int, error) {
	sessions, err := t.sessions.ActiveSessionsFor(ctx, principalID)
	if err != nil {
		return 0, fmt.Errorf("active count: %w", err)
	}
	return len(sessions), nil
}
