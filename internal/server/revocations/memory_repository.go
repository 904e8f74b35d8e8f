package revocations

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps revocations in process memory. Entries are dropped
// once the token would have expired anyway.
type MemoryRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{revoked: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRepository) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	r.revoked[tokenID] = until
	return nil
}

func (r *MemoryRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[tokenID]
	return ok && exp.After(r.now()), nil
}
