// Package tokenstore persists the single bearer token of the client session.
//
// Every backend stores the token under the fixed key common.AccessTokenKey,
// performs no validation and keeps no in-memory cache: each Read reflects the
// latest Save or Remove in the backing store. Read returns "" when no token is
// stored.
//
// Backends:
//   - SQLiteStore: durable local file, the default for the CLI.
//   - RedisStore: a slot shared by several client processes.
//   - MemoryStore: process-local, for tests and throw-away sessions.
//   - Unavailable: no durable environment at all; reads yield "no token".
package tokenstore

import "context"

// Store is the contract shared by all backends.
type Store interface {
	Save(ctx context.Context, token string) error
	Read(ctx context.Context) (string, error)
	Remove(ctx context.Context) error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)
