package repositories

import (
	"pasar/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(opts ListOptions) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
