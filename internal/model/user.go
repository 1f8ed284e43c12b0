package model

import (
	"time"

	"gorm.io/gorm"
)

// User statuses.
const (
	UserStatusDisabled = 0
	UserStatusEnabled  = 1
)

// User represents a login account.
type User struct {
	ID          uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Username    string         `json:"username" gorm:"size:64;not null;uniqueIndex:uk_username"`
	Email       *string        `json:"email" gorm:"size:128;uniqueIndex:uk_email"`
	Password    string         `json:"-" gorm:"size:255;not null"`
	IsSuperUser bool           `json:"is_super_user" gorm:"default:false"`
	Status      int            `json:"status" gorm:"default:1;index:idx_users_status"`
	CreatedAt   int64          `json:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt   int64          `json:"updated_at" gorm:"autoUpdateTime:milli"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserList contains a list of users and pagination info.
type UserList struct {
	TotalCount int64   `json:"totalCount"`
	Items      []*User `json:"items"`
}

// TableName returns the table name for GORM.
func (u *User) TableName() string {
	return "users"
}

// Enabled reports whether the account may log in.
func (u *User) Enabled() bool {
	return u.Status == UserStatusEnabled
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	u.CreatedAt = now
	u.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (u *User) BeforeUpdate(tx *gorm.DB) (err error) {
	u.UpdatedAt = time.Now().UnixMilli()
	return
}
