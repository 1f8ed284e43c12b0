package model

import (
	"time"

	"gorm.io/gorm"
)

// AccessProfile holds the per-user access policy settings. A user has at
// most one profile; the profile references exactly one role by code.
type AccessProfile struct {
	ID                    uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID                uint64         `json:"user_id" gorm:"not null;uniqueIndex:uk_user"`
	RoleCode              string         `json:"role_code" gorm:"size:32;not null;index:idx_role_code"`
	PrimaryDomain         string         `json:"primary_domain" gorm:"size:64"`
	SecondaryDomains      StringList     `json:"secondary_domains" gorm:"type:text"`
	IPAllowlist           StringList     `json:"ip_allowlist" gorm:"type:text"`
	AccessHours           HourWindows    `json:"access_hours" gorm:"type:text"`
	MaxConcurrentSessions int            `json:"max_concurrent_sessions" gorm:"default:0"`
	LastLoginIP           string         `json:"last_login_ip" gorm:"size:64"`
	CreatedAt             int64          `json:"created_at" gorm:"autoCreateTime:milli"`
	UpdatedAt             int64          `json:"updated_at" gorm:"autoUpdateTime:milli"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for GORM.
func (p *AccessProfile) TableName() string {
	return "access_profiles"
}

// BeforeCreate sets the CreatedAt and UpdatedAt fields.
func (p *AccessProfile) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UnixMilli()
	p.CreatedAt = now
	p.UpdatedAt = now
	return
}

// BeforeUpdate sets the UpdatedAt field.
func (p *AccessProfile) BeforeUpdate(tx *gorm.DB) (err error) {
	p.UpdatedAt = time.Now().UnixMilli()
	return
}
