package biz

import (
	"context"

	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/errors"
)

// AccessService answers capability questions for UIs and admin tooling.
type AccessService struct {
	gate *access.Gate
}

// NewAccessService creates a new AccessService.
func NewAccessService(gate *access.Gate) *AccessService {
	return &AccessService{gate: gate}
}

// Check evaluates the requirement for the given principal without serving a
// protected resource. The decision is audited like any other.
func (s *AccessService) Check(ctx context.Context, principal access.Principal, req *model.CheckAccessRequest, ip string) (*model.CheckAccessResponse, error) {
	outcome, err := s.gate.Evaluate(ctx, principal, access.Requirement{
		Permissions: req.Permissions,
		AnyRoles:    req.Roles,
		Domain:      req.Domain,
	}, ip)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}
	return &model.CheckAccessResponse{
		Allowed: outcome.Allowed,
		Reason:  string(outcome.Reason),
	}, nil
}

// Permissions returns the known permission names with descriptions.
func (s *AccessService) Permissions() map[string]string {
	return access.Permissions()
}

// GrantedPermissions returns the subset of known permissions the principal's
// role grants, for UI capability lists.
func (s *AccessService) GrantedPermissions(ctx context.Context, principal access.Principal) ([]string, error) {
	var granted []string
	for _, name := range access.PermissionNames() {
		ok, err := s.gate.Engine().HasPermission(ctx, principal, name)
		if err != nil {
			return nil, errors.ErrInternal.WithCause(err)
		}
		if ok {
			granted = append(granted, name)
		}
	}
	return granted, nil
}
