// Package access implements the access-control and session-policy engine for
// Petrel.
//
// The engine combines four independently configured policies into a single
// pass/fail decision with a machine-readable reason:
//
//   - role-derived permission grants with wildcard patterns
//   - per-user concurrent session ceilings
//   - per-user IP allowlists
//   - per-weekday access-hour windows
//
// The decision flow:
//  1. A request handler (or the guard middleware) calls Gate.Evaluate with
//     the authenticated principal, the requirement and the request context.
//  2. The gate runs an ordered, short-circuiting pipeline: authentication,
//     session concurrency, source IP, access hours, permission/role grant.
//  3. The first failing check produces a Deny outcome with a typed reason;
//     if every check passes the outcome is Allow.
//
// Every check is a pure read against injected stores. The engine never
// mutates state and never caches roles or profiles across evaluations, so an
// out-of-band role edit is visible on the next request. Policy failures are
// outcomes, not errors; an error return always means a broken dependency
// (store unreachable), never a legitimate denial.
package access

import (
	"context"
	"time"
)

// Principal is an authenticated actor on whose behalf decisions are made.
// The zero value is an unauthenticated principal.
type Principal struct {
	// ID is the stable principal identity (user ID).
	ID string

	// Username is the display identity, carried for audit records.
	Username string

	// Authenticated reports whether the transport layer verified the
	// principal's identity. The gate rejects unauthenticated principals
	// before any other check.
	Authenticated bool

	// SuperUser is the platform-level override flag. A super-principal
	// passes every permission check regardless of role, but is still
	// subject to session, IP and access-hour policies.
	SuperUser bool
}

// Role is a named, shared bundle of permission patterns.
type Role struct {
	// Code uniquely identifies the role (e.g. "ENGINEER").
	Code string

	// Name is the human-readable role name.
	Name string

	// Description explains what the role is for.
	Description string

	// Patterns is the set of permission patterns the role grants. Matching
	// is existential over the set; order is irrelevant.
	Patterns []string

	// RedirectURL is the dashboard the UI sends role members to after
	// login. It plays no part in access decisions.
	RedirectURL string
}

// HourWindow is an inclusive hour-of-day range. A window {Start: 9, End: 17}
// admits any instant from 09:00:00 through 17:59:59; the engine deliberately
// compares at hour granularity only.
type HourWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the given hour falls inside the window,
// inclusive on both ends.
func (w HourWindow) Contains(hour int) bool {
	return w.Start <= hour && hour <= w.End
}

// Profile holds the per-principal access policy settings. A principal has at
// most one profile; the profile references exactly one role.
type Profile struct {
	// PrincipalID is the owning principal.
	PrincipalID string

	// RoleCode references the principal's role.
	RoleCode string

	// PrimaryDomain is the principal's home engineering domain.
	PrimaryDomain string

	// SecondaryDomains are additional domains the principal may access.
	SecondaryDomains []string

	// IPAllowlist restricts the source addresses the principal may act
	// from. Empty means unrestricted. Membership is a literal string
	// compare; no CIDR interpretation is applied.
	IPAllowlist []string

	// AccessHours maps a weekday to the hour window during which the
	// principal may act. An empty map means unrestricted; a weekday absent
	// from a non-empty map is likewise unrestricted for that day.
	AccessHours map[time.Weekday]HourWindow

	// MaxConcurrentSessions is the session ceiling. Defaults to
	// DefaultMaxSessions when zero.
	MaxConcurrentSessions int
}

// DefaultMaxSessions is the session ceiling applied when a profile does not
// set one.
const DefaultMaxSessions = 3

// SessionLimit returns the effective concurrent-session ceiling.
func (p *Profile) SessionLimit() int {
	if p == nil || p.MaxConcurrentSessions <= 0 {
		return DefaultMaxSessions
	}
	return p.MaxConcurrentSessions
}

// Session is a live login instance tied to a principal. Sessions are created
// at login and expire via the session store's TTL; the engine only ever
// counts them.
type Session struct {
	// Token uniquely identifies the session.
	Token string

	// PrincipalID is the owning principal. Many sessions may reference one
	// principal.
	PrincipalID string

	// IP is the address the session was created from.
	IP string

	// UserAgent is the client user agent at session creation.
	UserAgent string

	// LastActivity is the most recent request time for the session.
	LastActivity time.Time

	// ExpiresAt is when the session stops counting as active.
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionStore is the external session storage the engine reads. The store
// owns session lifecycle (creation, refresh, TTL expiry); the engine never
// writes through this interface.
type SessionStore interface {
	// ActiveSessionsFor returns the sessions for the principal whose
	// expiry is still in the future.
	ActiveSessionsFor(ctx context.Context, principalID string) ([]Session, error)
}

// ProfileStore resolves principal profiles. A missing profile is reported
// via found=false, never as an error.
type ProfileStore interface {
	GetProfile(ctx context.Context, principalID string) (*Profile, bool, error)
}

// RoleStore resolves and persists roles. The decision hot path only reads;
// CreateRole exists for bootstrap seeding and admin writes.
type RoleStore interface {
	GetRole(ctx context.Context, code string) (*Role, bool, error)
	CreateRole(ctx context.Context, role *Role) error
	ListRoles(ctx context.Context) ([]*Role, error)
}

// Clock abstracts the current time so access-hour decisions are testable.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Decision is the audit record of a single gate evaluation.
type Decision struct {
	// PrincipalID identifies who the decision was made for. Empty when the
	// request carried no authenticated principal.
	PrincipalID string `json:"principal_id"`

	// Username mirrors the principal's display identity.
	Username string `json:"username,omitempty"`

	// Permissions are the permissions the requirement asked for.
	Permissions []string `json:"permissions,omitempty"`

	// Roles are the role codes the requirement asked for.
	Roles []string `json:"roles,omitempty"`

	// Domain is the engineering domain the requirement asked for.
	Domain string `json:"domain,omitempty"`

	// Allowed is the decision.
	Allowed bool `json:"allowed"`

	// Reason is set when the decision is a denial.
	Reason DenyReason `json:"reason,omitempty"`

	// IP is the request source address.
	IP string `json:"ip,omitempty"`

	// At is the evaluation time.
	At time.Time `json:"at"`
}

// AuditLogger receives every gate decision. Implementations must not block
// the decision path; failures to record are the logger's problem, not the
// caller's.
type AuditLogger interface {
	Record(ctx context.Context, d Decision)
}

// NopAuditLogger discards decisions.
type NopAuditLogger struct{}

// Record implements AuditLogger.
func (NopAuditLogger) Record(context.Context, Decision) {}
