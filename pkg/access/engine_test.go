package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineFor(roles *fakeRoleStore, profiles *fakeProfileStore) *Engine {
	return NewEngine(NewRegistry(roles), profiles)
}

func TestHasPermission(t *testing.T) {
	roles := newFakeRoleStore(
		&Role{Code: "ENGINEER", Patterns: []string{"drawing.read", "drawing.upload", "simulation.*"}},
		&Role{Code: "SUPER_ADMIN", Patterns: []string{"*"}},
	)
	profiles := newFakeProfileStore(
		&Profile{PrincipalID: "eng", RoleCode: "ENGINEER"},
		&Profile{PrincipalID: "root", RoleCode: "SUPER_ADMIN"},
		&Profile{PrincipalID: "roleless"},
	)
	engine := engineFor(roles, profiles)
	ctx := context.Background()

	tests := []struct {
		name       string
		principal  Principal
		permission string
		want       bool
	}{
		{"direct grant", authedPrincipal("eng"), "drawing.read", true},
		{"wildcard grant", authedPrincipal("eng"), "simulation.run", true},
		{"no grant", authedPrincipal("eng"), "project.delete", false},
		{"global wildcard grants undeclared permission", authedPrincipal("root"), "made.up", true},
		{"unauthenticated", Principal{ID: "eng"}, "drawing.read", false},
		{"missing profile fails closed", authedPrincipal("ghost"), "drawing.read", false},
		{"profile without role fails closed", authedPrincipal("roleless"), "drawing.read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.HasPermission(ctx, tt.principal, tt.permission)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasPermissionSuperUserOverride(t *testing.T) {
	// super-principal needs neither profile nor role
	engine := engineFor(newFakeRoleStore(), newFakeProfileStore())

	ok, err := engine.HasPermission(context.Background(), Principal{ID: "su", Authenticated: true, SuperUser: true}, "admin.system")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasPermissionMissingRoleIsNotAnError(t *testing.T) {
	// profile references a role the store no longer has
	profiles := newFakeProfileStore(&Profile{PrincipalID: "u", RoleCode: "GONE"})
	engine := engineFor(newFakeRoleStore(), profiles)

	ok, err := engine.HasPermission(context.Background(), authedPrincipal("u"), "drawing.read")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasAllPermissions(t *testing.T) {
	roles := newFakeRoleStore(&Role{Code: "ANALYST", Patterns: []string{"drawing.read", "data.export", "reports.generate"}})
	profiles := newFakeProfileStore(&Profile{PrincipalID: "ana", RoleCode: "ANALYST"})
	engine := engineFor(roles, profiles)
	ctx := context.Background()

	ok, failed, err := engine.HasAllPermissions(ctx, authedPrincipal("ana"), []string{"drawing.read", "data.export"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, failed)

	// one failure sinks the whole set even when the rest pass
	ok, failed, err = engine.HasAllPermissions(ctx, authedPrincipal("ana"), []string{"drawing.read", "drawing.delete", "data.export"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "drawing.delete", failed)
}

func TestHasAnyRole(t *testing.T) {
	roles := newFakeRoleStore(&Role{Code: "ENGINEER", Patterns: []string{"drawing.read"}})
	profiles := newFakeProfileStore(&Profile{PrincipalID: "eng", RoleCode: "ENGINEER"})
	engine := engineFor(roles, profiles)
	ctx := context.Background()

	ok, err := engine.HasAnyRole(ctx, authedPrincipal("eng"), []string{"SENIOR_ENGINEER", "ENGINEER"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.HasAnyRole(ctx, authedPrincipal("eng"), []string{"PROJECT_MANAGER"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.HasAnyRole(ctx, authedPrincipal("ghost"), []string{"ENGINEER"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessDomain(t *testing.T) {
	roles := newFakeRoleStore(
		&Role{Code: "ENGINEER", Patterns: []string{"drawing.read"}},
		&Role{Code: "SUPER_ADMIN", Patterns: []string{"*"}},
	)
	profiles := newFakeProfileStore(
		&Profile{PrincipalID: "eng", RoleCode: "ENGINEER", PrimaryDomain: "upstream", SecondaryDomains: []string{"offshore"}},
		&Profile{PrincipalID: "root", RoleCode: "SUPER_ADMIN", PrimaryDomain: "onshore"},
	)
	engine := engineFor(roles, profiles)
	ctx := context.Background()

	tests := []struct {
		name      string
		principal Principal
		domain    string
		want      bool
	}{
		{"primary domain", authedPrincipal("eng"), "upstream", true},
		{"secondary domain", authedPrincipal("eng"), "offshore", true},
		{"unlisted domain", authedPrincipal("eng"), "downstream", false},
		{"global wildcard role reaches any domain", authedPrincipal("root"), "midstream", true},
		{"missing profile", authedPrincipal("ghost"), "upstream", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.CanAccessDomain(ctx, tt.principal, tt.domain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngineSurfacesStoreFailure(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.err = errStoreDown
	engine := engineFor(newFakeRoleStore(), profiles)

	_, err := engine.HasPermission(context.Background(), authedPrincipal("u"), "drawing.read")
	assert.ErrorIs(t, err, errStoreDown)
}
