// Package config loads runtime configuration for the session CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   authentication server base URL (default http://localhost:3000)
//	-s string   token store backend: sqlite, redis, memory, none (default sqlite)
//	-d string   sqlite database path (default session.db)
//	-r string   redis address (default 127.0.0.1:6379)
//	-t int      request timeout in seconds (default 10)
//	-l string   log level: debug, info, warn, error (default warn)
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "base_url": "http://localhost:3000",
//	  "store_backend": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 2,
//	  "redis_prefix": "authsession:",
//	  "request_timeout": "5s",
//	  "log_level": "debug"
//	}
package config
