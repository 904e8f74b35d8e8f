package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/authsession/internal/client/tokenstore"
)

// Config holds runtime settings for the session CLI.
type Config struct {
	// BaseURL is the authentication server root; requests go to BaseURL/auth.
	BaseURL string

	// StoreBackend selects where the access token is kept, one of the
	// tokenstore.Backend* names.
	StoreBackend string
	SQLitePath   string
	RedisAddr    string
	RedisDB      int
	RedisPrefix  string

	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:3000"
	c.StoreBackend = tokenstore.BackendSQLite
	c.SQLitePath = "session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.RedisPrefix = "authsession:"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// StoreOptions maps the storage settings onto tokenstore.Open options.
func (c *Config) StoreOptions() tokenstore.Options {
	return tokenstore.Options{
		Backend:     c.StoreBackend,
		SQLitePath:  c.SQLitePath,
		RedisAddr:   c.RedisAddr,
		RedisDB:     c.RedisDB,
		RedisPrefix: c.RedisPrefix,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
