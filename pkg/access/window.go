package access

import (
	"context"
	"fmt"
	"time"
)

// WindowEvaluator validates a request's source IP against the principal's
// allowlist and the current time against the per-weekday access window.
// Both checks fail open when the principal has no profile unless strict
// mode is set.
type WindowEvaluator struct {
	profiles      ProfileStore
	strictProfile bool
}

// NewWindowEvaluator creates a WindowEvaluator over the profile store.
func NewWindowEvaluator(profiles ProfileStore) *WindowEvaluator {
	return &WindowEvaluator{profiles: profiles}
}

// SetStrictProfile makes a missing profile count as a denial instead of the
// historical fail-open behavior.
func (w *WindowEvaluator) SetStrictProfile(strict bool) {
	w.strictProfile = strict
}

// IsIPAllowed reports whether the request address may act for the principal.
// An empty allowlist is unrestricted; a non-empty one admits only literal
// string members, so even a malformed requestIP passes an empty list.
func (w *WindowEvaluator) IsIPAllowed(ctx context.Context, principal Principal, requestIP string) (bool, error) {
	profile, found, err := w.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return false, fmt.Errorf("ip check: %w", err)
	}
	if !found {
		return !w.strictProfile, nil
	}
	if len(profile.IPAllowlist) == 0 {
		return true, nil
	}
	for _, ip := range profile.IPAllowlist {
		if ip == requestIP {
			return true, nil
		}
	}
	return false, nil
}

// IsTimeAllowed reports whether the principal may act at the given instant.
// Comparison is at hour granularity, inclusive on both window ends: a
// {9,17} window admits 09:00:00 through 17:59:59. A weekday with no window
// configured is unrestricted for that day.
func (w *WindowEvaluator) IsTimeAllowed(ctx context.Context, principal Principal, now time.Time) (bool, error) {
	profile, found, err := w.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return false, fmt.Errorf("time check: %w", err)
	}
	if !found {
		return !w.strictProfile, nil
	}
	if len(profile.AccessHours) == 0 {
		return true, nil
	}
	window, ok := profile.AccessHours[now.Weekday()]
	if !ok {
		return true, nil
	}
	return window.Contains(now.Hour()), nil
}
