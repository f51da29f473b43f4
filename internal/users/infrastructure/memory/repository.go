package memory

import (
	"context"
	"sync"

	users "wisewatt-cloud/internal/users/domain"
)

// Repository is an in-memory user store for tests and local development.
type Repository struct {
	mu     sync.RWMutex
	byGUID map[string]users.User
}

// NewRepository constructs an empty store.
func NewRepository() *Repository {
	return &Repository{byGUID: map[string]users.User{}}
}

func (r *Repository) GetByGUID(_ context.Context, guid string) (*users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byGUID[guid]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &user, nil
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.byGUID {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (r *Repository) Save(_ context.Context, user users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byGUID[user.GUID] = user
	return nil
}

func (r *Repository) Update(_ context.Context, user users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byGUID[user.GUID]; !ok {
		return users.ErrUserNotFound
	}
	r.byGUID[user.GUID] = user
	return nil
}
