package access

import (
	"context"
	"fmt"
)

// Registry resolves roles against the injected RoleStore and seeds the
// default role set. It holds no state of its own and performs no caching:
// every lookup goes to the store so out-of-band role edits take effect on
// the next evaluation.
type Registry struct {
	store RoleStore
}

// NewRegistry creates a Registry backed by the given store.
func NewRegistry(store RoleStore) *Registry {
	return &Registry{store: store}
}

// GetRole resolves a role by code. A missing role is reported via
// found=false; an error means the store itself failed.
func (r *Registry) GetRole(ctx context.Context, code string) (*Role, bool, error) {
	return r.store.GetRole(ctx, code)
}

// DefaultRoles returns the built-in role set. The codes and pattern lists
// are load-bearing: downstream deployments depend on these exact grants.
func DefaultRoles() []*Role {
	return []*Role{
		{
			Code:        "SUPER_ADMIN",
			Name:        "Super Administrator",
			Description: "Full system access and control",
			Patterns:    []string{"*"},
			RedirectURL: "/admin-dashboard/",
		},
		{
			Code:        "PROJECT_MANAGER",
			Name:        "Project Manager",
			Description: "Project management and oversight",
			Patterns: []string{
				"project.*", "drawing.read", "drawing.comment", "drawing.approve",
				"simulation.read", "team.read", "reports.generate", "ai.query",
			},
			RedirectURL: "/pm/dashboard/",
		},
		{
			Code:        "SENIOR_ENGINEER",
			Name:        "Senior Engineer",
			Description: "Full engineering capabilities",
			Patterns: []string{
				"drawing.*", "simulation.*", "ai.query", "ai.advanced",
				"project.read", "project.modify", "safety.analyze",
				"compliance.check", "reports.generate",
			},
			RedirectURL: "/engineer/dashboard/",
		},
		{
			Code:        "ENGINEER",
			Name:        "Engineer",
			Description: "Standard engineering access",
			Patterns: []string{
				"drawing.read", "drawing.upload", "drawing.analyze", "drawing.comment",
				"simulation.create", "simulation.read", "simulation.run",
				"ai.query", "project.read", "reports.generate",
			},
			RedirectURL: "/engineer/workspace/",
		},
		{
			Code:        "ANALYST",
			Name:        "Analyst",
			Description: "Analysis and reporting access",
			Patterns: []string{
				"drawing.read", "simulation.read", "ai.query",
				"reports.generate", "data.export", "project.read",
			},
			RedirectURL: "/analyst/dashboard/",
		},
		{
			Code:        "VIEWER",
			Name:        "Viewer",
			Description: "Read-only access to approved content",
			Patterns: []string{
				"drawing.read", "simulation.read", "project.read", "reports.generate",
			},
			RedirectURL: "/viewer/dashboard/",
		},
	}
}

// SeedDefaultRoles creates any default roles missing from the store and
// returns only the ones it created. Existing roles are left untouched, so
// the call is idempotent and safe to run on every startup: admin edits to a
// seeded role survive restarts.
func (r *Registry) SeedDefaultRoles(ctx context.Context) ([]*Role, error) {
	var created []*Role
	for _, role := range DefaultRoles() {
		_, found, err := r.store.GetRole(ctx, role.Code)
		if err != nil {
			return created, fmt.Errorf("seed roles: lookup %s: %w", role.Code, err)
		}
		if found {
			continue
		}
		if err := r.store.CreateRole(ctx, role); err != nil {
			return created, fmt.Errorf("seed roles: create %s: %w", role.Code, err)
		}
		created = append(created, role)
	}
	return created, nil
}
