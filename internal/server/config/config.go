// Package config handles configuration for the development auth server:
// defaults, then environment variables (optionally from a .env file), then
// command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/authsession/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the auth server.
//
// Fields:
//   - Addr: HTTP bind address.
//   - SecretKey: HMAC secret for signing access tokens (HS256). A random one
//     is generated when none is configured, so tokens do not survive restarts.
//   - AccessTokenValidityDuration: access token lifetime.
//   - BcryptCost: password hashing cost.
//   - AdminEmails: accounts registered with one of these e-mails get the
//     admin role.
//   - LogLevel: zap level name.
type Config struct {
	Addr                        string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	AdminEmails                 []string
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.AdminEmails = nil
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then the environment and
// finally command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.ensureSecret(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ensureSecret() error {
	if c.SecretKey != "" {
		return nil
	}
	s, err := common.MakeRandHexString(32)
	if err != nil {
		return fmt.Errorf("generate secret key: %w", err)
	}
	c.SecretKey = s
	return nil
}
