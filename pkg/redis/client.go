// Package redis provides a redis client wired from options, wrapped as a
// storage.Client for health checking and shutdown.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	redisopts "github.com/petrel-io/petrel/pkg/options/redis"
	"github.com/petrel-io/petrel/pkg/storage"
)

// Client wraps a go-redis client as a storage.Client.
type Client struct {
	rdb *goredis.Client
}

// New creates a Client from options and verifies connectivity with a ping.
func New(opts *redisopts.Options) (*Client, error) {
	return NewWithContext(context.Background(), opts)
}

// NewWithContext creates a Client from options, honoring the context during
// the initial connectivity check.
func NewWithContext(ctx context.Context, opts *redisopts.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.Database,
		MaxRetries:   opts.MaxRetries,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolTimeout:  opts.PoolTimeout,
	})

	client := &Client{rdb: rdb}
	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connect %s: %w", opts.String(), err)
	}
	return client, nil
}

// Universal returns the underlying client for packages that speak go-redis
// directly, such as the session store.
func (c *Client) Universal() goredis.UniversalClient {
	return c.rdb
}

// Name implements storage.Client.
func (c *Client) Name() string {
	return "redis"
}

// Ping implements storage.Client.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close implements storage.Client.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health implements storage.Client.
func (c *Client) Health() storage.HealthChecker {
	return func() error {
		return c.Ping(context.Background())
	}
}

var _ storage.Client = (*Client)(nil)
