package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/authsession/internal/flagx"
)

var knownFlags = []string{"-a", "-s", "-d", "-r", "-t", "-l"}

// parseFlags populates Config fields from command-line flags:
//
//	-a string   authentication server base URL
//	-s string   token store backend: sqlite, redis, memory or none
//	-d string   sqlite database path
//	-r string   redis address
//	-t int      request timeout (seconds)
//	-l string   log level
//
// Only the flags above are looked at; anything else on the command line is
// left to other loaders.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "authentication server base URL")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "token store backend")
	fs.StringVar(&cfg.SQLitePath, "d", cfg.SQLitePath, "sqlite database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
