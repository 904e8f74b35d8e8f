package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps users in memory. E-mails and usernames are unique
// case-insensitively.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byEmail    map[string]string
	byUsername map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	email := strings.ToLower(user.Email)
	username := strings.ToLower(user.Username)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, ErrDuplicateEmail
	}
	if _, ok := r.byUsername[username]; ok {
		return nil, ErrDuplicateUsername
	}

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	r.byID[u.ID] = &u
	r.byEmail[email] = u.ID
	r.byUsername[username] = u.ID

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}
