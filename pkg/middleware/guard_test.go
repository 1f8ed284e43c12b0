package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrel-io/petrel/pkg/access"
)

type mapRoleStore struct {
	roles map[string]*access.Role
}

func (s *mapRoleStore) GetRole(_ context.Context, code string) (*access.Role, bool, error) {
	r, ok := s.roles[code]
	return r, ok, nil
}

func (s *mapRoleStore) CreateRole(_ context.Context, role *access.Role) error {
	s.roles[role.Code] = role
	return nil
}

func (s *mapRoleStore) ListRoles(_ context.Context) ([]*access.Role, error) {
	out := make([]*access.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	return out, nil
}

type mapProfileStore struct {
	profiles map[string]*access.Profile
}

func (s *mapProfileStore) GetProfile(_ context.Context, id string) (*access.Profile, bool, error) {
	p, ok := s.profiles[id]
	return p, ok, nil
}

type listSessionStore struct {
	sessions map[string][]access.Session
}

func (s *listSessionStore) ActiveSessionsFor(_ context.Context, id string) ([]access.Session, error) {
	return s.sessions[id], nil
}

func testGate(profiles map[string]*access.Profile, sessions map[string][]access.Session) *access.Gate {
	roles := &mapRoleStore{roles: make(map[string]*access.Role)}
	for _, r := range access.DefaultRoles() {
		roles.roles[r.Code] = r
	}
	return access.NewGate(roles, &mapProfileStore{profiles: profiles}, &listSessionStore{sessions: sessions})
}

func performGuarded(t *testing.T, gate *access.Gate, principal access.Principal, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected",
		func(c *gin.Context) {
			if principal.Authenticated {
				SetPrincipal(c, principal)
			}
		},
		guard,
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGuardAllows(t *testing.T) {
	gate := testGate(map[string]*access.Profile{
		"v": {PrincipalID: "v", RoleCode: "VIEWER"},
	}, nil)

	w := performGuarded(t, gate,
		access.Principal{ID: "v", Username: "v", Authenticated: true},
		RequirePermission(gate, "drawing.read"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])
}

func TestGuardUnauthenticated(t *testing.T) {
	gate := testGate(nil, nil)

	w := performGuarded(t, gate, access.Principal{}, RequirePermission(gate, "drawing.read"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Authentication required", body["error"])
	assert.Equal(t, "/login/", body["redirect"])
}

func TestGuardPermissionDenied(t *testing.T) {
	gate := testGate(map[string]*access.Profile{
		"v": {PrincipalID: "v", RoleCode: "VIEWER"},
	}, nil)
	principal := access.Principal{ID: "v", Username: "v", Authenticated: true}

	w := performGuarded(t, gate, principal, RequirePermission(gate, "drawing.upload"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Insufficient permissions", body["error"])
	assert.Equal(t, "drawing.upload", body["required_permission"])

	// the multi-permission shape uses the plural field
	w = performGuarded(t, gate, principal, RequirePermissions(gate, "drawing.upload", "drawing.delete"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	body = decode(t, w)
	assert.Equal(t, []interface{}{"drawing.upload", "drawing.delete"}, body["required_permissions"])
}

func TestGuardRoleDenied(t *testing.T) {
	gate := testGate(map[string]*access.Profile{
		"v": {PrincipalID: "v", RoleCode: "VIEWER"},
	}, nil)

	w := performGuarded(t, gate,
		access.Principal{ID: "v", Username: "v", Authenticated: true},
		RequireAnyRole(gate, "PROJECT_MANAGER", "SUPER_ADMIN"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Insufficient role privileges", body["error"])
	assert.Equal(t, []interface{}{"PROJECT_MANAGER", "SUPER_ADMIN"}, body["required_roles"])
	assert.Equal(t, "VIEWER", body["user_role"])
}

func TestGuardSessionLimit(t *testing.T) {
	sessions := map[string][]access.Session{
		"u": {{Token: "t1", PrincipalID: "u"}},
	}
	gate := testGate(map[string]*access.Profile{
		"u": {PrincipalID: "u", RoleCode: "ENGINEER", MaxConcurrentSessions: 1},
	}, sessions)

	w := performGuarded(t, gate,
		access.Principal{ID: "u", Username: "u", Authenticated: true},
		RequirePermission(gate, "drawing.read"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Maximum concurrent sessions exceeded", body["error"])
	assert.Equal(t, "logout_other_sessions", body["action"])
}

func TestGuardIPDenied(t *testing.T) {
	gate := testGate(map[string]*access.Profile{
		"u": {PrincipalID: "u", RoleCode: "ENGINEER", IPAllowlist: []string{"10.1.2.3"}},
	}, nil)

	w := performGuarded(t, gate,
		access.Principal{ID: "u", Username: "u", Authenticated: true},
		RequirePermission(gate, "drawing.read"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Access denied from this IP address", body["error"])
	assert.NotEmpty(t, body["ip"])
}

func TestGuardDomainDenied(t *testing.T) {
	gate := testGate(map[string]*access.Profile{
		"u": {PrincipalID: "u", RoleCode: "ENGINEER", PrimaryDomain: "upstream"},
	}, nil)

	w := performGuarded(t, gate,
		access.Principal{ID: "u", Username: "u", Authenticated: true},
		RequireDomain(gate, "downstream"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Access denied to downstream domain", body["error"])
	assert.Equal(t, "downstream", body["required_domain"])
}
