package tokenstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authsession/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authsession/internal/common"
	"github.com/dmitrijs2005/authsession/internal/dbx"
)

// SQLiteStore keeps the token in the local metadata table together with the
// time it was written.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	savedAt := strconv.FormatInt(s.now().Unix(), 10)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.AccessTokenSavedAtKey, []byte(savedAt))
	})
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context) (string, error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(v), nil
}

func (s *SQLiteStore) Remove(ctx context.Context) error {
	err := metadata.NewSQLiteRepository(s.db).Delete(ctx, common.AccessTokenKey, common.AccessTokenSavedAtKey)
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// SavedAt reports when the current token was written. ok is false when no
// token is stored.
func (s *SQLiteStore) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	v, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.AccessTokenSavedAtKey)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read token timestamp: %w", err)
	}
	if v == nil {
		return time.Time{}, false, nil
	}
	sec, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse token timestamp: %w", err)
	}
	return time.Unix(sec, 0), true, nil
}
