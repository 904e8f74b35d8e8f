package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/authsession/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-admins     comma-separated admin e-mails
//	-l string   log level
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-admins", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	ttl := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	admins := fs.String("admins", strings.Join(cfg.AdminEmails, ","), "admin e-mails")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.AccessTokenValidityDuration = time.Duration(*ttl) * time.Minute
	cfg.AdminEmails = splitList(*admins)
	return nil
}
