// Package usertest provides an in-memory user repository for tests.
package usertest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/user/domain"
)

// Repository keeps users in memory and enforces unique emails
type Repository struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
	Err   error
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{users: make(map[uuid.UUID]domain.User)}
}

func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
