package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the token for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Read(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStore) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Unavailable is the store used when there is no durable environment, such
// as a headless process without a writable state directory. It never holds
// a token.
type Unavailable struct{}

func (Unavailable) Save(context.Context, string) error   { return nil }
func (Unavailable) Read(context.Context) (string, error) { return "", nil }
func (Unavailable) Remove(context.Context) error         { return nil }
