package memory

import (
	"context"
	"sync"

	"github.com/maumlog/maum-api/internal/domain"
)

// UserRepository is an in-memory implementation of domain.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[domain.UserID]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[domain.UserID]domain.User),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = *user
	return nil
}
