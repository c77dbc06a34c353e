package repositories

import (
	"fmt"
	"sync"
	"time"

	"kmonitor/internal/models"

	"github.com/google/uuid"
)

// MemUserRepository is an in-memory implementation of UserRepository.
type MemUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMemUserRepository creates a new instance of MemUserRepository.
func NewMemUserRepository() *MemUserRepository {
	return &MemUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user, assigning an ID and creation time.
func (r *MemUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// GetByID returns a user by ID.
func (r *MemUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &user, nil
}

// GetByUsername returns the user with the given username.
func (r *MemUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
}
