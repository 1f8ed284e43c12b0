package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petrel-io/petrel/pkg/access"
)

// RedisStore is a Redis-backed session store for distributed deployments.
// Each session lives under its own key with a TTL matching its expiry, so
// Redis handles expiration; a per-principal set tracks session membership
// and is pruned lazily on read.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	clock  access.Clock
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix overrides the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisClock overrides the store clock.
func WithRedisClock(clock access.Clock) RedisOption {
	return func(s *RedisStore) {
		s.clock = clock
	}
}

// NewRedisStore creates a Redis-backed session store. The client is managed
// externally; Close does not close it.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "petrel:session:",
		clock:  access.SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// redisSession is the wire form of a session.
type redisSession struct {
	Token        string    `json:"token"`
	PrincipalID  string    `json:"principal_id"`
	IP           string    `json:"ip,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func toWire(s access.Session) redisSession {
	return redisSession{
		Token:        s.Token,
		PrincipalID:  s.PrincipalID,
		IP:           s.IP,
		UserAgent:    s.UserAgent,
		LastActivity: s.LastActivity,
		ExpiresAt:    s.ExpiresAt,
	}
}

func (rs redisSession) toSession() access.Session {
	return access.Session{
		Token:        rs.Token,
		PrincipalID:  rs.PrincipalID,
		IP:           rs.IP,
		UserAgent:    rs.UserAgent,
		LastActivity: rs.LastActivity,
		ExpiresAt:    rs.ExpiresAt,
	}
}

func (s *RedisStore) sessionKey(token string) string {
	return s.prefix + token
}

func (s *RedisStore) principalKey(principalID string) string {
	return s.prefix + "principal:" + principalID
}

// Create registers a new session.
func (s *RedisStore) Create(ctx context.Context, sess access.Session) error {
	ttl := sess.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return fmt.Errorf("create session: already expired")
	}

	payload, err := json.Marshal(toWire(sess))
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(sess.Token), payload, ttl)
	pipe.SAdd(ctx, s.principalKey(sess.PrincipalID), sess.Token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Get returns the session for the token.
func (s *RedisStore) Get(ctx context.Context, token string) (access.Session, bool, error) {
	payload, err := s.client.Get(ctx, s.sessionKey(token)).Bytes()
	if err == redis.Nil {
		return access.Session{}, false, nil
	}
	if err != nil {
		return access.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(payload, &rs); err != nil {
		return access.Session{}, false, fmt.Errorf("get session: %w", err)
	}
	sess := rs.toSession()
	if sess.Expired(s.clock.Now()) {
		return access.Session{}, false, nil
	}
	return sess, true, nil
}

// ActiveSessionsFor returns the principal's unexpired sessions, pruning set
// members whose session keys have expired.
func (s *RedisStore) ActiveSessionsFor(ctx context.Context, principalID string) ([]access.Session, error) {
	tokens, err := s.client.SMembers(ctx, s.principalKey(principalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	now := s.clock.Now()
	active := make([]access.Session, 0, len(tokens))
	var stale []interface{}
	for _, token := range tokens {
		sess, found, err := s.Get(ctx, token)
		if err != nil {
			return nil, err
		}
		if !found || sess.Expired(now) {
			stale = append(stale, token)
			continue
		}
		active = append(active, sess)
	}

	if len(stale) > 0 {
		if err := s.client.SRem(ctx, s.principalKey(principalID), stale...).Err(); err != nil {
			return nil, fmt.Errorf("prune sessions: %w", err)
		}
	}
	return active, nil
}

// Touch refreshes the session's last-activity time, keeping the TTL.
func (s *RedisStore) Touch(ctx context.Context, token string, at time.Time) error {
	sess, found, err := s.Get(ctx, token)
	if err != nil || !found {
		return err
	}
	sess.LastActivity = at

	payload, err := json.Marshal(toWire(sess))
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if err := s.client.Set(ctx, s.sessionKey(token), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Delete removes the session for the token.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	sess, found, err := s.Get(ctx, token)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(token))
	if found {
		pipe.SRem(ctx, s.principalKey(sess.PrincipalID), token)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteOthers removes every session of the principal except keepToken and
// returns how many live sessions were revoked. Set members whose session
// keys have already expired are pruned without being counted.
func (s *RedisStore) DeleteOthers(ctx context.Context, principalID, keepToken string) (int, error) {
	tokens, err := s.client.SMembers(ctx, s.principalKey(principalID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	removed, queued := 0, 0
	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		if token == keepToken {
			continue
		}
		_, found, err := s.Get(ctx, token)
		if err != nil {
			return 0, err
		}
		if found {
			removed++
		}
		pipe.Del(ctx, s.sessionKey(token))
		pipe.SRem(ctx, s.principalKey(principalID), token)
		queued++
	}
	if queued == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	return removed, nil
}

// Close is a no-op; the Redis client is managed externally.
func (s *RedisStore) Close() error {
	return nil
}

var _ Store = (*RedisStore)(nil)
