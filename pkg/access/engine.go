package access

import (
	"context"
	"fmt"
)

// Engine answers permission questions for a principal by composing the role
// registry with pattern matching. Absence of a profile or role is never an
// error: it simply means no grant, so every check fails closed. Errors are
// reserved for store failures.
type Engine struct {
	registry *Registry
	profiles ProfileStore
}

// NewEngine creates an Engine over the given registry and profile store.
func NewEngine(registry *Registry, profiles ProfileStore) *Engine {
	return &Engine{registry: registry, profiles: profiles}
}

// resolveRole returns the principal's role via its profile, or found=false
// when either the profile or the role does not exist.
func (e *Engine) resolveRole(ctx context.Context, principal Principal) (*Role, bool, error) {
	profile, found, err := e.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return nil, false, fmt.Errorf("resolve role: %w", err)
	}
	if !found || profile.RoleCode == "" {
		return nil, false, nil
	}
	role, found, err := e.registry.GetRole(ctx, profile.RoleCode)
	if err != nil {
		return nil, false, fmt.Errorf("resolve role: %w", err)
	}
	return role, found, nil
}

// HasPermission reports whether the principal may exercise the permission.
// Unauthenticated principals never hold permissions; super-principals hold
// all of them unconditionally.
func (e *Engine) HasPermission(ctx context.Context, principal Principal, permission string) (bool, error) {
	if !principal.Authenticated {
		return false, nil
	}
	if principal.SuperUser {
		return true, nil
	}
	role, found, err := e.resolveRole(ctx, principal)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return Matches(permission, role.Patterns), nil
}

// HasAllPermissions reports whether every permission in the list is granted,
// short-circuiting on the first failure. It returns the first permission
// that failed so callers can surface it.
func (e *Engine) HasAllPermissions(ctx context.Context, principal Principal, permissions []string) (bool, string, error) {
	for _, permission := range permissions {
		ok, err := e.HasPermission(ctx, principal, permission)
		if err != nil {
			return false, permission, err
		}
		if !ok {
			return false, permission, nil
		}
	}
	return true, "", nil
}

// RoleCode returns the principal's role code, or "" when no role resolves.
func (e *Engine) RoleCode(ctx context.Context, principal Principal) (string, error) {
	role, found, err := e.resolveRole(ctx, principal)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}
	return role.Code, nil
}

// HasAnyRole reports whether the principal's role code is one of the given
// codes. Super-principals pass regardless of role assignment.
func (e *Engine) HasAnyRole(ctx context.Context, principal Principal, codes []string) (bool, error) {
	if !principal.Authenticated {
		return false, nil
	}
	if principal.SuperUser {
		return true, nil
	}
	current, err := e.RoleCode(ctx, principal)
	if err != nil {
		return false, err
	}
	if current == "" {
		return false, nil
	}
	for _, code := range codes {
		if current == code {
			return true, nil
		}
	}
	return false, nil
}

// CanAccessDomain reports whether the principal may work in the given
// engineering domain: the domain is the profile's primary domain, appears in
// its secondary set, or the principal's role grants the global "*".
func (e *Engine) CanAccessDomain(ctx context.Context, principal Principal, domain string) (bool, error) {
	if !principal.Authenticated {
		return false, nil
	}
	if principal.SuperUser {
		return true, nil
	}
	profile, found, err := e.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return false, fmt.Errorf("domain check: %w", err)
	}
	if !found {
		return false, nil
	}
	if profile.PrimaryDomain == domain {
		return true, nil
	}
	for _, d := range profile.SecondaryDomains {
		if d == domain {
			return true, nil
		}
	}
	role, roleFound, err := e.resolveRole(ctx, principal)
	if err != nil {
		return false, err
	}
	return roleFound && Matches("*", role.Patterns), nil
}
