package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/errors"
)

func TestRoleServiceCRUD(t *testing.T) {
	factory := setupTestStore(t)
	svc := NewRoleService(factory)
	ctx := context.Background()

	role, err := svc.Create(ctx, &model.CreateRoleRequest{
		Code:        "AUDITOR",
		Name:        "Auditor",
		Patterns:    []string{"admin.audit", "reports.*"},
		RedirectURL: "/audit/",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStatusEnabled, role.Status)

	_, err = svc.Create(ctx, &model.CreateRoleRequest{
		Code:     "AUDITOR",
		Name:     "Duplicate",
		Patterns: []string{"admin.audit"},
	})
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	newName := "Compliance Auditor"
	updated, err := svc.Update(ctx, "AUDITOR", &model.UpdateRoleRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, model.StringList{"admin.audit", "reports.*"}, updated.Patterns)

	got, err := svc.Get(ctx, "AUDITOR")
	require.NoError(t, err)
	assert.Equal(t, newName, got.Name)

	require.NoError(t, svc.Delete(ctx, "AUDITOR"))
	_, err = svc.Get(ctx, "AUDITOR")
	assert.ErrorIs(t, err, errors.ErrRoleNotFound)
}

func TestRoleServiceSeedIdempotent(t *testing.T) {
	factory := setupTestStore(t)
	svc := NewRoleService(factory)
	ctx := context.Background()

	created, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Len(t, created, len(access.DefaultRoles()))

	created, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)

	list, err := svc.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(len(access.DefaultRoles())), list.TotalCount)
}

func TestRoleAdapterHidesDisabledRoles(t *testing.T) {
	factory := setupTestStore(t)
	adapter := NewRoleAdapter(factory)
	ctx := context.Background()

	require.NoError(t, factory.Roles().Create(ctx, &model.Role{
		Code:     "RETIRED",
		Name:     "Retired",
		Patterns: model.StringList{"drawing.read"},
		Status:   model.RoleStatusDisabled,
	}))

	_, found, err := adapter.GetRole(ctx, "RETIRED")
	require.NoError(t, err)
	assert.False(t, found)

	roles, err := adapter.ListRoles(ctx)
	require.NoError(t, err)
	assert.Empty(t, roles)
}
