package repositories

import (
	"fmt"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// List retrieves a page of users.
func (r *GORMUserRepository) List(opts ListOptions) ([]models.User, error) {
	var users []models.User
	if err := r.db.Scopes(listScope(opts)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err = translateGORMError(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err = translateGORMError(err); err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translateGORMError(err))
	}
	return nil
}

// Update replaces the name and email of an existing user.
func (r *GORMUserRepository) Update(id, name, email string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":  name,
		"email": email,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", translateGORMError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword stores a new password digest.
func (r *GORMUserRepository) UpdatePassword(id, passwordHash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete physically removes a user.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
