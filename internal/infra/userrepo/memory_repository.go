package userrepo

import (
	"context"
	"sync"

	"github.com/glowedge/skincare-backend/internal/domain/user"
)

// MemoryRepository keeps users in process memory for local runs and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[int64]user.User
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]user.User)}
}

func (r *MemoryRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok, nil
}

var _ user.Repository = (*MemoryRepository)(nil)
