package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/petrel-io/petrel/internal/model"
)

type roles struct {
	db *gorm.DB
}

func newRoles(db *gorm.DB) *roles {
	return &roles{db}
}

// Create creates a new role.
func (r *roles) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// Update updates an existing role.
func (r *roles) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete deletes a role by code.
func (r *roles) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Where("code = ?", code).Delete(&model.Role{}).Error
}

// Get retrieves a role by code.
func (r *roles) Get(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List lists roles with pagination. A non-positive limit returns all roles.
func (r *roles) List(ctx context.Context, offset, limit int) (int64, []*model.Role, error) {
	var count int64
	var items []*model.Role

	if err := r.db.WithContext(ctx).Model(&model.Role{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}

	tx := r.db.WithContext(ctx).Offset(offset)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return count, items, nil
}
