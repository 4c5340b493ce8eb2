package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/multisession/internal/common"
)

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byName  map[string]*User
	byEmail map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byName:  make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, ErrUsernameTaken
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, ErrEmailTaken
	}

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	r.byName[u.UserName] = &u
	r.byEmail[u.Email] = &u

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byName[login]
	if !ok {
		u, ok = r.byEmail[login]
	}
	if !ok {
		return nil, common.ErrorNotFound
	}

	out := *u
	return &out, nil
}
