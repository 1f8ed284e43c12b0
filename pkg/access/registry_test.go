package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultRoles(t *testing.T) {
	store := newFakeRoleStore()
	registry := NewRegistry(store)
	ctx := context.Background()

	created, err := registry.SeedDefaultRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, created, 6)

	role, found, err := registry.GetRole(ctx, "VIEWER")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"drawing.read", "simulation.read", "project.read", "reports.generate"}, role.Patterns)
}

func TestSeedDefaultRolesIdempotent(t *testing.T) {
	store := newFakeRoleStore()
	registry := NewRegistry(store)
	ctx := context.Background()

	_, err := registry.SeedDefaultRoles(ctx)
	require.NoError(t, err)

	// an admin edit to a seeded role must survive a re-seed
	edited, _, err := store.GetRole(ctx, "VIEWER")
	require.NoError(t, err)
	edited.Patterns = []string{"drawing.read"}
	require.NoError(t, store.CreateRole(ctx, edited))

	created, err := registry.SeedDefaultRoles(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)

	role, _, err := store.GetRole(ctx, "VIEWER")
	require.NoError(t, err)
	assert.Equal(t, []string{"drawing.read"}, role.Patterns)
}

func TestDefaultRolePatterns(t *testing.T) {
	byCode := make(map[string]*Role)
	for _, r := range DefaultRoles() {
		byCode[r.Code] = r
	}

	assert.Equal(t, []string{"*"}, byCode["SUPER_ADMIN"].Patterns)
	assert.Equal(t, []string{
		"project.*", "drawing.read", "drawing.comment", "drawing.approve",
		"simulation.read", "team.read", "reports.generate", "ai.query",
	}, byCode["PROJECT_MANAGER"].Patterns)
	assert.Equal(t, []string{
		"drawing.*", "simulation.*", "ai.query", "ai.advanced",
		"project.read", "project.modify", "safety.analyze",
		"compliance.check", "reports.generate",
	}, byCode["SENIOR_ENGINEER"].Patterns)
	assert.Equal(t, []string{
		"drawing.read", "drawing.upload", "drawing.analyze", "drawing.comment",
		"simulation.create", "simulation.read", "simulation.run",
		"ai.query", "project.read", "reports.generate",
	}, byCode["ENGINEER"].Patterns)
	assert.Equal(t, []string{
		"drawing.read", "simulation.read", "ai.query",
		"reports.generate", "data.export", "project.read",
	}, byCode["ANALYST"].Patterns)
	assert.Equal(t, []string{
		"drawing.read", "simulation.read", "project.read", "reports.generate",
	}, byCode["VIEWER"].Patterns)
}

func TestSeedDefaultRolesStoreFailure(t *testing.T) {
	store := newFakeRoleStore()
	store.err = errStoreDown
	registry := NewRegistry(store)

	_, err := registry.SeedDefaultRoles(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
}
