package memory

import (
	"context"
	"sync"

	"tawseel/internal/domain"
	"tawseel/internal/repository"
)

// UserRepository is an in-memory implementation of repository.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepository creates an in-memory user repository seeded with users.
func NewUserRepository(users ...*domain.User) *UserRepository {
	r := &UserRepository{users: make(map[string]*domain.User, len(users))}
	for _, u := range users {
		r.Add(u)
	}
	return r
}

// Add stores or replaces a user profile.
func (r *UserRepository) Add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *user
	r.users[user.ID] = &c
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

// GetByIDs retrieves the users that exist among ids.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			c := *u
			result[id] = &c
		}
	}
	return result, nil
}

// Ensure UserRepository implements repository.UserRepository.
var _ repository.UserRepository = (*UserRepository)(nil)
