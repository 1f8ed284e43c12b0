package access

import (
	"context"
	"time"
)

// Requirement states what a request must satisfy once the ambient policies
// pass. Fields compose with AND semantics: a requirement naming both
// permissions and a domain needs all of them. A zero Requirement only
// exercises the ambient checks (authentication, sessions, IP, hours).
type Requirement struct {
	// Permissions must all be granted by the principal's role.
	Permissions []string

	// AnyRoles passes if the principal's role code is any one of these.
	AnyRoles []string

	// Domain must be accessible per the principal's profile.
	Domain string
}

// RequirePermission builds a single-permission requirement.
func RequirePermission(permission string) Requirement {
	return Requirement{Permissions: []string{permission}}
}

// RequirePermissions builds a requirement over several permissions, all of
// which must hold.
func RequirePermissions(permissions ...string) Requirement {
	return Requirement{Permissions: permissions}
}

// RequireAnyRole builds a role-membership requirement.
func RequireAnyRole(codes ...string) Requirement {
	return Requirement{AnyRoles: codes}
}

// RequireDomain builds an engineering-domain requirement.
func RequireDomain(domain string) Requirement {
	return Requirement{Domain: domain}
}

// GateConfig tunes gate behavior.
type GateConfig struct {
	// LoginRedirect is where unauthenticated callers are sent.
	LoginRedirect string

	// StrictProfile denies the session, IP and time checks for principals
	// without a profile. The default preserves the historical fail-open
	// behavior.
	StrictProfile bool
}

// DefaultGateConfig returns the compatible defaults.
func DefaultGateConfig() GateConfig {
	return GateConfig{LoginRedirect: "/login/"}
}

// Gate composes the decision engine, session tracker and window evaluator
// into one ordered, short-circuiting pipeline. It is the only access-control
// entry point request handlers use.
//
// The check order is deliberate: authentication, then the cheap per-profile
// checks (session count, IP, hours), then the role lookup for the permission
// check. Reordering would change which reason a multiply-failing request
// reports, so the order is part of the observable contract.
type Gate struct {
	engine  *Engine
	tracker *Tracker
	window  *WindowEvaluator
	audit   AuditLogger
	clock   Clock
	config  GateConfig
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithAuditLogger sets the decision sink.
func WithAuditLogger(audit AuditLogger) GateOption {
	return func(g *Gate) {
		g.audit = audit
	}
}

// WithClock overrides the gate's clock.
func WithClock(clock Clock) GateOption {
	return func(g *Gate) {
		g.clock = clock
	}
}

// WithConfig overrides the gate configuration.
func WithConfig(config GateConfig) GateOption {
	return func(g *Gate) {
		g.config = config
		g.tracker.SetStrictProfile(config.StrictProfile)
		g.window.SetStrictProfile(config.StrictProfile)
	}
}

// NewGate wires a Gate over the injected stores. Evaluation performs only
// reads; no locks are taken and concurrent evaluations are independent.
func NewGate(roles RoleStore, profiles ProfileStore, sessions SessionStore, opts ...GateOption) *Gate {
	registry := NewRegistry(roles)
	g := &Gate{
		engine:  NewEngine(registry, profiles),
		tracker: NewTracker(sessions, profiles),
		window:  NewWindowEvaluator(profiles),
		audit:   NopAuditLogger{},
		clock:   SystemClock,
		config:  DefaultGateConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Engine exposes the underlying decision engine for callers that need bare
// permission checks outside a full evaluation (e.g. UI capability lists).
func (g *Gate) Engine() *Engine {
	return g.engine
}

// Tracker exposes the session tracker for login-time concurrency checks.
func (g *Gate) Tracker() *Tracker {
	return g.tracker
}

// Registry exposes the role registry for bootstrap seeding.
func (g *Gate) Registry() *Registry {
	return g.engine.registry
}

// Evaluate runs the decision pipeline at the gate clock's current time.
func (g *Gate) Evaluate(ctx context.Context, principal Principal, req Requirement, requestIP string) (Outcome, error) {
	return g.EvaluateAt(ctx, principal, req, requestIP, g.clock.Now())
}

// EvaluateAt runs the ordered decision pipeline at an explicit instant and
// returns the outcome. Identical inputs against unchanged stores produce
// identical outcomes. A non-nil error means a dependency failed and no
// decision was reached; callers must not treat it as a denial.
func (g *Gate) EvaluateAt(ctx context.Context, principal Principal, req Requirement, requestIP string, now time.Time) (Outcome, error) {
	outcome, err := g.evaluate(ctx, principal, req, requestIP, now)
	if err != nil {
		return Outcome{}, err
	}
	g.audit.Record(ctx, Decision{
		PrincipalID: principal.ID,
		Username:    principal.Username,
		Permissions: req.Permissions,
		Roles:       req.AnyRoles,
		Domain:      req.Domain,
		Allowed:     outcome.Allowed,
		Reason:      outcome.Reason,
		IP:          requestIP,
		At:          now,
	})
	return outcome, nil
}

func (g *Gate) evaluate(ctx context.Context, principal Principal, req Requirement, requestIP string, now time.Time) (Outcome, error) {
	if !principal.Authenticated {
		return Deny(DenyAuthenticationRequired, Detail{Redirect: g.config.LoginRedirect}), nil
	}

	ok, err := g.tracker.CheckConcurrency(ctx, principal)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Deny(DenySessionLimitExceeded, Detail{}), nil
	}

	ok, err = g.window.IsIPAllowed(ctx, principal, requestIP)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Deny(DenyIPNotAllowed, Detail{IP: requestIP}), nil
	}

	ok, err = g.window.IsTimeAllowed(ctx, principal, now)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Deny(DenyAccessHours, Detail{}), nil
	}

	if len(req.AnyRoles) > 0 {
		ok, err = g.engine.HasAnyRole(ctx, principal, req.AnyRoles)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			current, err := g.engine.RoleCode(ctx, principal)
			if err != nil {
				return Outcome{}, err
			}
			return Deny(DenyPermissionDenied, Detail{Roles: req.AnyRoles, UserRole: current}), nil
		}
	}

	if len(req.Permissions) > 0 {
		ok, _, err := g.engine.HasAllPermissions(ctx, principal, req.Permissions)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			return Deny(DenyPermissionDenied, Detail{Permissions: req.Permissions}), nil
		}
	}

	if req.Domain != "" {
		ok, err = g.engine.CanAccessDomain(ctx, principal, req.Domain)
		if err != nil {
			return Outcome{}, err
		}
		if !ok {
			return Deny(DenyPermissionDenied, Detail{Domain: req.Domain}), nil
		}
	}

	return Allow(), nil
}
