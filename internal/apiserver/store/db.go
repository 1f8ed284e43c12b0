package store

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/options/database"
)

// datastore implements the Factory interface over a gorm connection.
type datastore struct {
	db *gorm.DB
}

// NewFactory opens the database named by the options and returns the store
// factory. The caller owns Close.
func NewFactory(opts *database.Options) (Factory, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case database.DriverSQLite:
		dialector = sqlite.Open(opts.DSN())
	case database.DriverMySQL:
		dialector = mysql.Open(opts.DSN())
	case database.DriverPostgres:
		dialector = postgres.Open(opts.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.LogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access underlying connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConnections)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConnections)
	sqlDB.SetConnMaxLifetime(opts.MaxConnectionLifeTime)

	return &datastore{db: db}, nil
}

// NewFactoryWithDB wraps an existing gorm connection. Used by tests running
// against in-memory sqlite.
func NewFactoryWithDB(db *gorm.DB) Factory {
	return &datastore{db: db}
}

// Users returns the user store.
func (ds *datastore) Users() UserStore {
	return newUsers(ds.db)
}

// Roles returns the role store.
func (ds *datastore) Roles() RoleStore {
	return newRoles(ds.db)
}

// Profiles returns the access profile store.
func (ds *datastore) Profiles() ProfileStore {
	return newProfiles(ds.db)
}

// Audit returns the audit store.
func (ds *datastore) Audit() AuditStore {
	return newAudit(ds.db)
}

// AutoMigrate migrates the database schema.
func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.AccessProfile{},
		&model.AccessDecision{},
		&model.LoginLog{},
	)
}

// Ping verifies database connectivity.
func (ds *datastore) Ping(ctx context.Context) error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (ds *datastore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
