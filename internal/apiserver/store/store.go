// Package store provides the relational persistence layer for the apiserver.
package store

import (
	"context"

	"github.com/petrel-io/petrel/internal/model"
)

// Factory defines the factory interface for creating stores.
type Factory interface {
	Users() UserStore
	Roles() RoleStore
	Profiles() ProfileStore
	Audit() AuditStore
	AutoMigrate() error
	Ping(ctx context.Context) error
	Close() error
}

// UserStore defines the user storage interface.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, username string) error
	Get(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context, offset, limit int) (int64, []*model.User, error)
}

// RoleStore defines the role storage interface.
type RoleStore interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, code string) error
	Get(ctx context.Context, code string) (*model.Role, error)
	List(ctx context.Context, offset, limit int) (int64, []*model.Role, error)
}

// ProfileStore defines the access profile storage interface.
type ProfileStore interface {
	Upsert(ctx context.Context, profile *model.AccessProfile) error
	GetByUserID(ctx context.Context, userID uint64) (*model.AccessProfile, error)
	UpdateLastLoginIP(ctx context.Context, userID uint64, ip string) error
	Delete(ctx context.Context, userID uint64) error
}

// AuditStore defines the append-only audit storage interface.
type AuditStore interface {
	CreateDecision(ctx context.Context, decision *model.AccessDecision) error
	ListDecisions(ctx context.Context, offset, limit int) (int64, []*model.AccessDecision, error)
	CreateLoginLog(ctx context.Context, log *model.LoginLog) error
}
