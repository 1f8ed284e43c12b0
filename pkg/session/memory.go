package session

import (
	"context"
	"time"

	"github.com/petrel-io/petrel/pkg/access"
	"github.com/petrel-io/petrel/pkg/cache"
)

const principalIndex = "principal"

// MemoryStore is an in-memory session store backed by an indexed cache.
// Suitable for single-instance deployments and tests; distributed
// deployments use RedisStore.
type MemoryStore struct {
	sessions *cache.Indexed[string, access.Session]
	clock    access.Clock

	janitorStop chan struct{}
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the store clock.
func WithMemoryClock(clock access.Clock) MemoryOption {
	return func(s *MemoryStore) {
		s.clock = clock
	}
}

// NewMemoryStore creates an in-memory session store. A background janitor
// drops expired sessions every interval; pass 0 to disable it (reads filter
// expired sessions regardless).
func NewMemoryStore(janitorInterval time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions:    cache.NewIndexed[string, access.Session](),
		clock:       access.SystemClock,
		janitorStop: make(chan struct{}),
	}
	s.sessions.AddIndex(principalIndex, func(sess access.Session) any {
		return sess.PrincipalID
	})

	for _, opt := range opts {
		opt(s)
	}

	if janitorInterval > 0 {
		go s.janitor(janitorInterval)
	}
	return s
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := s.clock.Now()
			for _, sess := range s.sessions.Filter(func(sess access.Session) bool {
				return sess.Expired(now)
			}) {
				s.sessions.Del(sess.Token)
			}
		case <-s.janitorStop:
			return
		}
	}
}

// Create registers a new session.
func (s *MemoryStore) Create(_ context.Context, sess access.Session) error {
	s.sessions.Set(sess.Token, sess)
	return nil
}

// Get returns the session for the token.
func (s *MemoryStore) Get(_ context.Context, token string) (access.Session, bool, error) {
	sess, ok := s.sessions.Get(token)
	if !ok || sess.Expired(s.clock.Now()) {
		return access.Session{}, false, nil
	}
	return sess, true, nil
}

// ActiveSessionsFor returns the principal's unexpired sessions.
func (s *MemoryStore) ActiveSessionsFor(_ context.Context, principalID string) ([]access.Session, error) {
	all, err := s.sessions.Find(principalIndex, principalID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	active := make([]access.Session, 0, len(all))
	for _, sess := range all {
		if !sess.Expired(now) {
			active = append(active, sess)
		}
	}
	return active, nil
}

// Touch refreshes the session's last-activity time.
func (s *MemoryStore) Touch(_ context.Context, token string, at time.Time) error {
	sess, ok := s.sessions.Get(token)
	if !ok {
		return nil
	}
	sess.LastActivity = at
	s.sessions.Set(token, sess)
	return nil
}

// Delete removes the session for the token.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.sessions.Del(token)
	return nil
}

// DeleteOthers removes every session of the principal except keepToken and
// returns how many live sessions were revoked. Expired sessions are dropped
// without being counted.
func (s *MemoryStore) DeleteOthers(ctx context.Context, principalID, keepToken string) (int, error) {
	all, err := s.sessions.Find(principalIndex, principalID)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	removed := 0
	for _, sess := range all {
		if sess.Token == keepToken {
			continue
		}
		s.sessions.Del(sess.Token)
		if !sess.Expired(now) {
			removed++
		}
	}
	return removed, nil
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	close(s.janitorStop)
	return nil
}

var _ Store = (*MemoryStore)(nil)
