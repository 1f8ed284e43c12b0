package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// businessHours is a Monday morning inside any sane office window.
var businessHours = time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

func seededGate(t *testing.T, profiles *fakeProfileStore, sessions *fakeSessionStore, opts ...GateOption) *Gate {
	t.Helper()
	roles := newFakeRoleStore(DefaultRoles()...)
	return NewGate(roles, profiles, sessions, opts...)
}

func TestGateViewerReadsDrawings(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "v", RoleCode: "VIEWER"})
	gate := seededGate(t, profiles, newFakeSessionStore())

	out, err := gate.EvaluateAt(context.Background(), authedPrincipal("v"), RequirePermission("drawing.read"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.True(t, out.Allowed)
	assert.Empty(t, out.Reason)
}

func TestGateViewerCannotUpload(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "v", RoleCode: "VIEWER"})
	gate := seededGate(t, profiles, newFakeSessionStore())

	out, err := gate.EvaluateAt(context.Background(), authedPrincipal("v"), RequirePermission("drawing.upload"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyPermissionDenied, out.Reason)
	assert.Equal(t, []string{"drawing.upload"}, out.Detail.Permissions)
}

func TestGateIPDenialPrecedesPermissionGrant(t *testing.T) {
	// the wildcard grant never runs: the IP check fires first
	profiles := newFakeProfileStore(&Profile{
		PrincipalID: "root",
		RoleCode:    "SUPER_ADMIN",
		IPAllowlist: []string{"10.0.0.1"},
	})
	gate := seededGate(t, profiles, newFakeSessionStore())

	out, err := gate.EvaluateAt(context.Background(), authedPrincipal("root"), RequirePermission("admin.system"), "203.0.113.9", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyIPNotAllowed, out.Reason)
	assert.Equal(t, "203.0.113.9", out.Detail.IP)
}

func TestGateSessionCeiling(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "u", RoleCode: "ENGINEER", MaxConcurrentSessions: 1})
	sessions := newFakeSessionStore()
	sessions.add("u", 1)
	gate := seededGate(t, profiles, sessions)

	out, err := gate.EvaluateAt(context.Background(), authedPrincipal("u"), RequirePermission("drawing.read"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenySessionLimitExceeded, out.Reason)
}

func TestGateUnauthenticated(t *testing.T) {
	gate := seededGate(t, newFakeProfileStore(), newFakeSessionStore())

	out, err := gate.EvaluateAt(context.Background(), Principal{}, RequirePermission("drawing.read"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyAuthenticationRequired, out.Reason)
	assert.Equal(t, "/login/", out.Detail.Redirect)
}

func TestGateAccessHoursDenial(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{
		PrincipalID: "u",
		RoleCode:    "ENGINEER",
		AccessHours: map[time.Weekday]HourWindow{time.Monday: {Start: 9, End: 17}},
	})
	gate := seededGate(t, profiles, newFakeSessionStore())

	midnight := time.Date(2026, 8, 24, 0, 30, 0, 0, time.UTC)
	out, err := gate.EvaluateAt(context.Background(), authedPrincipal("u"), RequirePermission("drawing.read"), "10.0.0.1", midnight)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyAccessHours, out.Reason)
}

func TestGateRoleRequirement(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "eng", RoleCode: "ENGINEER"})
	gate := seededGate(t, profiles, newFakeSessionStore())
	ctx := context.Background()

	out, err := gate.EvaluateAt(ctx, authedPrincipal("eng"), RequireAnyRole("ENGINEER", "SENIOR_ENGINEER"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.True(t, out.Allowed)

	out, err = gate.EvaluateAt(ctx, authedPrincipal("eng"), RequireAnyRole("PROJECT_MANAGER"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyPermissionDenied, out.Reason)
	assert.Equal(t, []string{"PROJECT_MANAGER"}, out.Detail.Roles)
	assert.Equal(t, "ENGINEER", out.Detail.UserRole)
}

func TestGateDomainRequirement(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "eng", RoleCode: "ENGINEER", PrimaryDomain: "upstream"})
	gate := seededGate(t, profiles, newFakeSessionStore())
	ctx := context.Background()

	out, err := gate.EvaluateAt(ctx, authedPrincipal("eng"), RequireDomain("upstream"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.True(t, out.Allowed)

	out, err = gate.EvaluateAt(ctx, authedPrincipal("eng"), RequireDomain("downstream"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyPermissionDenied, out.Reason)
	assert.Equal(t, "downstream", out.Detail.Domain)
}

func TestGateCombinedRequirement(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "se", RoleCode: "SENIOR_ENGINEER", PrimaryDomain: "upstream"})
	gate := seededGate(t, profiles, newFakeSessionStore())
	ctx := context.Background()

	req := Requirement{
		Permissions: []string{"drawing.read", "simulation.run"},
		AnyRoles:    []string{"SENIOR_ENGINEER", "PROJECT_MANAGER"},
		Domain:      "upstream",
	}
	out, err := gate.EvaluateAt(ctx, authedPrincipal("se"), req, "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.True(t, out.Allowed)

	// one missing permission fails the conjunction
	req.Permissions = append(req.Permissions, "admin.system")
	out, err = gate.EvaluateAt(ctx, authedPrincipal("se"), req, "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyPermissionDenied, out.Reason)
}

func TestGateEvaluationIsRepeatable(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "v", RoleCode: "VIEWER"})
	gate := seededGate(t, profiles, newFakeSessionStore())
	ctx := context.Background()

	first, err := gate.EvaluateAt(ctx, authedPrincipal("v"), RequirePermission("drawing.read"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := gate.EvaluateAt(ctx, authedPrincipal("v"), RequirePermission("drawing.read"), "10.0.0.1", businessHours)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGateRecordsDecisions(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "v", RoleCode: "VIEWER"})
	audit := &recordingAudit{}
	gate := seededGate(t, profiles, newFakeSessionStore(), WithAuditLogger(audit))
	ctx := context.Background()

	_, err := gate.EvaluateAt(ctx, authedPrincipal("v"), RequirePermission("drawing.read"), "10.0.0.1", businessHours)
	require.NoError(t, err)
	_, err = gate.EvaluateAt(ctx, authedPrincipal("v"), RequirePermission("drawing.upload"), "10.0.0.1", businessHours)
	require.NoError(t, err)

	require.Len(t, audit.decisions, 2)

	allowed := audit.decisions[0]
	assert.Equal(t, "v", allowed.PrincipalID)
	assert.Equal(t, []string{"drawing.read"}, allowed.Permissions)
	assert.True(t, allowed.Allowed)
	assert.Equal(t, businessHours, allowed.At)

	denied := audit.decisions[1]
	assert.False(t, denied.Allowed)
	assert.Equal(t, DenyPermissionDenied, denied.Reason)
	assert.Equal(t, "10.0.0.1", denied.IP)
}

func TestGateStoreFailureIsAnErrorNotADenial(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{PrincipalID: "v", RoleCode: "VIEWER"})
	profiles.err = errStoreDown
	audit := &recordingAudit{}
	gate := seededGate(t, profiles, newFakeSessionStore(), WithAuditLogger(audit))

	out, err := gate.EvaluateAt(context.Background(), authedPrincipal("v"), RequirePermission("drawing.read"), "10.0.0.1", businessHours)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, Outcome{}, out)
	assert.Empty(t, audit.decisions, "no decision is recorded when none was reached")
}

func TestGateStrictProfileConfig(t *testing.T) {
	cfg := DefaultGateConfig()
	cfg.StrictProfile = true
	gate := seededGate(t, newFakeProfileStore(), newFakeSessionStore(), WithConfig(cfg))

	out, err := gate.EvaluateAt(context.Background(), authedPrincipal("ghost"), Requirement{}, "10.0.0.1", businessHours)
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenySessionLimitExceeded, out.Reason)
}

func TestGateUsesInjectedClock(t *testing.T) {
	profiles := newFakeProfileStore(&Profile{
		PrincipalID: "u",
		RoleCode:    "ENGINEER",
		AccessHours: map[time.Weekday]HourWindow{time.Monday: {Start: 9, End: 17}},
	})
	midnight := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	gate := seededGate(t, profiles, newFakeSessionStore(), WithClock(ClockFunc(func() time.Time { return midnight })))

	out, err := gate.Evaluate(context.Background(), authedPrincipal("u"), Requirement{}, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, out.Allowed)
	assert.Equal(t, DenyAccessHours, out.Reason)
}
