package repositories

import (
	"sync"
	"time"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// Email uniqueness is enforced under the write lock, like a unique index.
type MemoryUserRepository struct {
	users map[string]models.User
	order []string
	mu    sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

// List returns a page of users in insertion order unless a sort is requested.
func (r *MemoryUserRepository) List(opts ListOptions) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.users[id])
	}
	return pageInMemory(all, opts, userField), nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// GetByEmail returns a user by its email.
func (r *MemoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(user.Email, "") {
		return ErrDuplicateKey
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	r.order = append(r.order, user.ID)
	return nil
}

// Update replaces name and email of an existing user.
func (r *MemoryUserRepository) Update(id, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	if r.emailTakenLocked(email, id) {
		return ErrDuplicateKey
	}
	user.Name, user.Email, user.UpdatedAt = name, email, time.Now()
	r.users[id] = user
	return nil
}

// UpdatePassword stores a new password digest.
func (r *MemoryUserRepository) UpdatePassword(id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	user.Password, user.UpdatedAt = passwordHash, time.Now()
	r.users[id] = user
	return nil
}

// Delete removes a user by its ID.
func (r *MemoryUserRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *MemoryUserRepository) emailTakenLocked(email, exceptID string) bool {
	for id, user := range r.users {
		if id != exceptID && user.Email == email {
			return true
		}
	}
	return false
}

func userField(u models.User, field string) string {
	switch field {
	case "name":
		return u.Name
	case "email":
		return u.Email
	}
	return ""
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
