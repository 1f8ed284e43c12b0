package biz

import (
	"context"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/errors"
)

// AuditService reads the audit trail.
type AuditService struct {
	store store.Factory
}

// NewAuditService creates a new AuditService.
func NewAuditService(factory store.Factory) *AuditService {
	return &AuditService{store: factory}
}

// Decisions lists recorded access decisions, newest first.
func (s *AuditService) Decisions(ctx context.Context, offset, limit int) (int64, []*model.AccessDecision, error) {
	count, items, err := s.store.Audit().ListDecisions(ctx, offset, limit)
	if err != nil {
		return 0, nil, errors.ErrDatabase.WithCause(err)
	}
	return count, items, nil
}
