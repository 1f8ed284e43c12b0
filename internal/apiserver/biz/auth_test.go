package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrel-io/petrel/internal/apiserver/store"
	"github.com/petrel-io/petrel/internal/model"
	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/errors"
	jwtopts "github.com/petrel-io/petrel/pkg/options/jwt"
	"github.com/petrel-io/petrel/pkg/security/auth/jwt"
	"github.com/petrel-io/petrel/pkg/session"
)

func setupAuthService(t *testing.T, factory store.Factory) (*AuthService, session.Store, *jwt.JWT) {
	t.Helper()

	opts := jwtopts.NewOptions()
	opts.Key = "test-signing-key-of-32-characters"
	tokens, err := jwt.New(opts)
	require.NoError(t, err)

	sessions := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = sessions.Close() })

	tracker := access.NewTracker(sessions, NewProfileAdapter(factory))
	return NewAuthService(factory, sessions, tokens, tracker), sessions, tokens
}

func TestAuthServiceLogin(t *testing.T) {
	factory := setupTestStore(t)
	svc, sessions, tokens := setupAuthService(t, factory)
	ctx := context.Background()

	user := createTestUser(t, factory, "amira", "password123", false)
	lc := LoginContext{IP: "10.0.0.1", UserAgent: "test-agent"}

	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "amira", Password: "password123"}, lc)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.Token)

	// the signed token verifies and its jti names a live session
	claims, err := tokens.Verify(ctx, resp.Token)
	require.NoError(t, err)
	sess, found, err := sessions.Get(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "10.0.0.1", sess.IP)
	assert.Equal(t, "test-agent", sess.UserAgent)
}

func TestAuthServiceRecordsLastLoginIP(t *testing.T) {
	factory := setupTestStore(t)
	svc, _, _ := setupAuthService(t, factory)
	ctx := context.Background()

	user := createTestUser(t, factory, "amira", "password123", false)
	require.NoError(t, factory.Roles().Create(ctx, &model.Role{
		Code: "ENGINEER", Name: "Engineer", Patterns: model.StringList{"drawing.read"},
		Status: model.RoleStatusEnabled,
	}))
	require.NoError(t, factory.Profiles().Upsert(ctx, &model.AccessProfile{
		UserID: user.ID, RoleCode: "ENGINEER",
	}))

	req := &model.LoginRequest{Username: "amira", Password: "password123"}
	_, err := svc.Login(ctx, req, LoginContext{IP: "203.0.113.7"})
	require.NoError(t, err)

	profile, err := factory.Profiles().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", profile.LastLoginIP)

	// a later login from another address replaces it
	_, err = svc.Login(ctx, req, LoginContext{IP: "198.51.100.2"})
	require.NoError(t, err)

	profile, err = factory.Profiles().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.2", profile.LastLoginIP)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	factory := setupTestStore(t)
	svc, _, _ := setupAuthService(t, factory)
	ctx := context.Background()
	lc := LoginContext{IP: "10.0.0.1"}

	createTestUser(t, factory, "amira", "password123", false)

	disabled := createTestUser(t, factory, "ben", "password123", false)
	disabled.Status = model.UserStatusDisabled
	require.NoError(t, factory.Users().Update(ctx, disabled))

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"unknown user", "nobody", "password123", errors.ErrInvalidCredentials},
		{"wrong password", "amira", "nope", errors.ErrInvalidCredentials},
		{"disabled account", "ben", "password123", errors.ErrAccountDisabled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &model.LoginRequest{Username: tt.username, Password: tt.password}, lc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthServiceSessionCeiling(t *testing.T) {
	factory := setupTestStore(t)
	svc, _, _ := setupAuthService(t, factory)
	ctx := context.Background()
	lc := LoginContext{IP: "10.0.0.1"}

	user := createTestUser(t, factory, "amira", "password123", false)
	require.NoError(t, factory.Profiles().Upsert(ctx, &model.AccessProfile{
		UserID:                user.ID,
		RoleCode:              "ENGINEER",
		MaxConcurrentSessions: 1,
	}))

	req := &model.LoginRequest{Username: "amira", Password: "password123"}

	first, err := svc.Login(ctx, req, lc)
	require.NoError(t, err)
	assert.Equal(t, "ENGINEER", first.RoleCode)

	_, err = svc.Login(ctx, req, lc)
	assert.ErrorIs(t, err, errors.ErrSessionLimitExceeded)
}

func TestAuthServiceLogoutRevokes(t *testing.T) {
	factory := setupTestStore(t)
	svc, sessions, tokens := setupAuthService(t, factory)
	ctx := context.Background()
	lc := LoginContext{IP: "10.0.0.1"}

	createTestUser(t, factory, "amira", "password123", false)
	resp, err := svc.Login(ctx, &model.LoginRequest{Username: "amira", Password: "password123"}, lc)
	require.NoError(t, err)

	claims, err := tokens.Verify(ctx, resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))

	// the token still parses, but its session is gone
	_, found, err := sessions.Get(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAuthServiceLogoutOthers(t *testing.T) {
	factory := setupTestStore(t)
	svc, _, tokens := setupAuthService(t, factory)
	ctx := context.Background()
	lc := LoginContext{IP: "10.0.0.1"}

	createTestUser(t, factory, "amira", "password123", false)
	req := &model.LoginRequest{Username: "amira", Password: "password123"}

	_, err := svc.Login(ctx, req, lc)
	require.NoError(t, err)
	second, err := svc.Login(ctx, req, lc)
	require.NoError(t, err)

	claims, err := tokens.Verify(ctx, second.Token)
	require.NoError(t, err)
	principalID := claims.Subject

	infos, err := svc.Sessions(ctx, principalID, claims.ID)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	n, err := svc.LogoutOthers(ctx, principalID, claims.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	infos, err = svc.Sessions(ctx, principalID, claims.ID)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Current)
}
