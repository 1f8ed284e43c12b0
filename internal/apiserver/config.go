// Package apiserver wires the access-control API server: configuration,
// dependency construction and the serving loop.
package apiserver

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/petrel-io/petrel/pkg/options/database"
	jwtopts "github.com/petrel-io/petrel/pkg/options/jwt"
	logopts "github.com/petrel-io/petrel/pkg/options/logger"
	redisopts "github.com/petrel-io/petrel/pkg/options/redis"
	httpopts "github.com/petrel-io/petrel/pkg/options/server/http"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config aggregates every option group the server needs.
type Config struct {
	HTTP  *httpopts.Options  `json:"http" mapstructure:"http"`
	Log   *logopts.Options   `json:"log" mapstructure:"log"`
	JWT   *jwtopts.Options   `json:"jwt" mapstructure:"jwt"`
	DB    *database.Options  `json:"db" mapstructure:"db"`
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`

	// SessionBackend selects where sessions live: memory for single
	// instance deployments, redis when running more than one replica.
	SessionBackend string `json:"session-backend" mapstructure:"session-backend"`

	// SessionJanitorInterval is how often the memory backend sweeps
	// expired sessions. Ignored for redis, which expires keys itself.
	SessionJanitorInterval time.Duration `json:"session-janitor-interval" mapstructure:"session-janitor-interval"`

	// StrictProfile denies the policy checks for users without a profile
	// instead of the default fail-open behavior.
	StrictProfile bool `json:"strict-profile" mapstructure:"strict-profile"`

	// LoginRedirect is where unauthenticated browser clients are sent.
	LoginRedirect string `json:"login-redirect" mapstructure:"login-redirect"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		HTTP:                   httpopts.NewOptions(),
		Log:                    logopts.NewOptions(),
		JWT:                    jwtopts.NewOptions(),
		DB:                     database.NewOptions(),
		Redis:                  redisopts.NewOptions(),
		SessionBackend:         SessionBackendMemory,
		SessionJanitorInterval: time.Minute,
		LoginRedirect:          "/login/",
		ShutdownTimeout:        30 * time.Second,
	}
}

// AddFlags registers all option flags on the flag set.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	c.HTTP.AddFlags(fs)
	c.Log.AddFlags(fs)
	c.JWT.AddFlags(fs)
	c.DB.AddFlags(fs)
	c.Redis.AddFlags(fs)

	fs.StringVar(&c.SessionBackend, "session-backend", c.SessionBackend, "Session storage backend (memory, redis)")
	fs.DurationVar(&c.SessionJanitorInterval, "session-janitor-interval", c.SessionJanitorInterval, "Sweep interval for expired in-memory sessions")
	fs.BoolVar(&c.StrictProfile, "strict-profile", c.StrictProfile, "Deny policy checks for users without an access profile")
	fs.StringVar(&c.LoginRedirect, "login-redirect", c.LoginRedirect, "Redirect target for unauthenticated requests")
	fs.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "Graceful shutdown timeout")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if errs := c.HTTP.Validate(); len(errs) > 0 {
		return errs[0]
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.JWT.Validate(); err != nil {
		return err
	}
	if err := c.DB.Validate(); err != nil {
		return err
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if err := c.Redis.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported session backend: %q", c.SessionBackend)
	}

	return nil
}
