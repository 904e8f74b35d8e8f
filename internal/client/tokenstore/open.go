package tokenstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authsession/internal/client/storage"
	"github.com/redis/go-redis/v9"
)

// Options selects and parameterises a backend.
type Options struct {
	Backend     string
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

// Open builds the store named by opts.Backend. The returned close function
// releases the underlying connection and is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendSQLite, "":
		db, err := storage.InitDatabase(ctx, opts.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite token store: %w", err)
		}
		return NewSQLiteStore(db), db.Close, nil

	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr, DB: opts.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("open redis token store: %w", err)
		}
		return NewRedisStore(rdb, opts.RedisPrefix), rdb.Close, nil

	case BackendMemory:
		return NewMemoryStore(), noop, nil

	case BackendNone:
		return Unavailable{}, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown token store backend %q", opts.Backend)
	}
}
