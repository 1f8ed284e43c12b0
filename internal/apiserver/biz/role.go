package biz

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/errors"
)

// RoleService manages role definitions.
type RoleService struct {
	store store.Factory
}

// NewRoleService creates a new RoleService.
func NewRoleService(factory store.Factory) *RoleService {
	return &RoleService{store: factory}
}

// Create creates a role from the request.
func (s *RoleService) Create(ctx context.Context, req *model.CreateRoleRequest) (*model.Role, error) {
	if _, err := s.store.Roles().Get(ctx, req.Code); err == nil {
		return nil, errors.ErrAlreadyExists.WithMessagef("role %q already exists", req.Code)
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrDatabase.WithCause(err)
	}

	role := &model.Role{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Patterns:    model.StringList(req.Patterns),
		RedirectURL: req.RedirectURL,
		Status:      model.RoleStatusEnabled,
	}
	if err := s.store.Roles().Create(ctx, role); err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return role, nil
}

// Update applies the non-nil fields of the request to the role.
func (s *RoleService) Update(ctx context.Context, code string, req *model.UpdateRoleRequest) (*model.Role, error) {
	role, err := s.get(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Patterns != nil {
		role.Patterns = model.StringList(*req.Patterns)
	}
	if req.RedirectURL != nil {
		role.RedirectURL = *req.RedirectURL
	}

	if err := s.store.Roles().Update(ctx, role); err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return role, nil
}

// Delete removes a role by code.
func (s *RoleService) Delete(ctx context.Context, code string) error {
	if _, err := s.get(ctx, code); err != nil {
		return err
	}
	if err := s.store.Roles().Delete(ctx, code); err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

// Get retrieves a role by code.
func (s *RoleService) Get(ctx context.Context, code string) (*model.Role, error) {
	return s.get(ctx, code)
}

// List lists roles with pagination.
func (s *RoleService) List(ctx context.Context, offset, limit int) (*model.RoleList, error) {
	count, items, err := s.store.Roles().List(ctx, offset, limit)
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &model.RoleList{TotalCount: count, Items: items}, nil
}

// Seed inserts the built-in roles that do not exist yet and returns the
// ones it created. Safe to run on every startup.
func (s *RoleService) Seed(ctx context.Context) ([]*access.Role, error) {
	registry := access.NewRegistry(NewRoleAdapter(s.store))
	created, err := registry.SeedDefaultRoles(ctx)
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return created, nil
}

func (s *RoleService) get(ctx context.Context, code string) (*model.Role, error) {
	role, err := s.store.Roles().Get(ctx, code)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrRoleNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return role, nil
}
