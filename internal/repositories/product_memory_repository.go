package repositories

import (
	"fmt"
	"sync"
	"time"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	order    []string
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns a page of products.
func (r *MemoryProductRepository) List(opts ListOptions) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.products[id])
	}
	return pageInMemory(all, opts, productField), nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	r.products[product.ID] = *product
	r.order = append(r.order, product.ID)
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	current.Name = product.Name
	current.Description = product.Description
	current.Price = product.Price
	current.Quantity = product.Quantity
	current.UpdatedAt = time.Now()
	r.products[product.ID] = current
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	r.order = removeID(r.order, id)
	return nil
}

// productField pads numbers so lexical order matches numeric order for
// non-negative values.
func productField(p models.Product, field string) string {
	switch field {
	case "namaproduk":
		return p.Name
	case "deskripsi":
		return p.Description
	case "harga":
		return fmt.Sprintf("%020.2f", p.Price)
	case "total":
		return fmt.Sprintf("%020d", p.Quantity)
	}
	return ""
}
