package biz

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
)

func setupTestStore(t *testing.T) store.Factory {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory := store.NewFactoryWithDB(db)
	require.NoError(t, factory.AutoMigrate())
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

func createTestUser(t *testing.T, factory store.Factory, username, password string, super bool) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{
		Username:    username,
		Password:    string(hashed),
		IsSuperUser: super,
		Status:      model.UserStatusEnabled,
	}
	require.NoError(t, factory.Users().Create(context.Background(), user))
	return user
}
