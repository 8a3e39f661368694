package repositories

import "pasar/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	List(opts ListOptions) ([]models.User, error)
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(id, name, email string) error
	UpdatePassword(id, passwordHash string) error
	Delete(id string) error
}
