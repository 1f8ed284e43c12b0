package access

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeRoleStore is an in-memory RoleStore for tests.
type fakeRoleStore struct {
	mu    sync.RWMutex
	roles map[string]*Role
	err   error
}

func newFakeRoleStore(roles ...*Role) *fakeRoleStore {
	s := &fakeRoleStore{roles: make(map[string]*Role)}
	for _, r := range roles {
		s.roles[r.Code] = r
	}
	return s
}

func (s *fakeRoleStore) GetRole(_ context.Context, code string) (*Role, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[code]
	return role, ok, nil
}

func (s *fakeRoleStore) CreateRole(_ context.Context, role *Role) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[role.Code] = role
	return nil
}

func (s *fakeRoleStore) ListRoles(_ context.Context) ([]*Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	return out, nil
}

// fakeProfileStore is an in-memory ProfileStore for tests.
type fakeProfileStore struct {
	profiles map[string]*Profile
	err      error
}

func newFakeProfileStore(profiles ...*Profile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: make(map[string]*Profile)}
	for _, p := range profiles {
		s.profiles[p.PrincipalID] = p
	}
	return s
}

func (s *fakeProfileStore) GetProfile(_ context.Context, principalID string) (*Profile, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	p, ok := s.profiles[principalID]
	return p, ok, nil
}

// fakeSessionStore returns a fixed session list per principal.
type fakeSessionStore struct {
	sessions map[string][]Session
	err      error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string][]Session)}
}

func (s *fakeSessionStore) add(principalID string, n int) {
	for i := 0; i < n; i++ {
		s.sessions[principalID] = append(s.sessions[principalID], Session{
			Token:       "tok",
			PrincipalID: principalID,
			ExpiresAt:   time.Now().Add(time.Hour),
		})
	}
}

func (s *fakeSessionStore) ActiveSessionsFor(_ context.Context, principalID string) ([]Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[principalID], nil
}

// recordingAudit captures decisions for assertions.
type recordingAudit struct {
	mu        sync.Mutex
	decisions []Decision
}

func (a *recordingAudit) Record(_ context.Context, d Decision) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.decisions = append(a.decisions, d)
}

var errStoreDown = errors.New("store unreachable")

func authedPrincipal(id string) Principal {
	return Principal{ID: id, Username: id, Authenticated: true}
}
