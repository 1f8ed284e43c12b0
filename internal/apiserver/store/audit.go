package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/petrel-io/petrel/internal/model"
)

type audit struct {
	db *gorm.DB
}

func newAudit(db *gorm.DB) *audit {
	return &audit{db}
}

// CreateDecision appends one access decision record.
func (a *audit) CreateDecision(ctx context.Context, decision *model.AccessDecision) error {
	return a.db.WithContext(ctx).Create(decision).Error
}

// ListDecisions lists decisions newest first with pagination.
func (a *audit) ListDecisions(ctx context.Context, offset, limit int) (int64, []*model.AccessDecision, error) {
	var count int64
	var items []*model.AccessDecision

	if err := a.db.WithContext(ctx).Model(&model.AccessDecision{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}

	if err := a.db.WithContext(ctx).
		Order("decided_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return count, items, nil
}

// CreateLoginLog appends one login attempt record.
func (a *audit) CreateLoginLog(ctx context.Context, log *model.LoginLog) error {
	return a.db.WithContext(ctx).Create(log).Error
}
