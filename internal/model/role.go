package model

import (
	"time"

	"gorm.io/gorm"
)

// Role statuses.
const (
	RoleStatusDisabled = 0
	RoleStatusEnabled  = 1
)

// Role represents a named permission bundle. Patterns holds the permission
// patterns the role grants, exact names or trailing-asterisk prefixes.
type Role struct {
	ID          uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string         `json:"code" gorm:"size:32;not null;uniqueIndex:uk_code"`
	Name        string         `json:"name" gorm:"size:64;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Patterns    StringList     `json:"patterns" gorm:"type:text"`
	RedirectURL string         `json:"redirect_url" gorm:"size:255"`
	Status      int            `json:"status" gorm:"default:1;index:idx_roles_status"`
	CreatedAt   int64          `json:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt   int64          `json:"updated_at" gorm:"autoUpdateTime:milli"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// RoleList contains a list of roles and pagination info.
type RoleList struct {
	TotalCount int64   `json:"totalCount"`
	Items      []*Role `json:"items"`
}

// TableName returns the table name for GORM.
func (r *Role) TableName() string {
	return "roles"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (r *Role) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	r.CreatedAt = now
	r.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (r *Role) BeforeUpdate(tx *gorm.DB) (err error) {
	r.UpdatedAt = time.Now().UnixMilli()
	return
}
