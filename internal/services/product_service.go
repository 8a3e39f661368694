package services

import (
	"fmt"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/rs/zerolog"
)

var (
	productSearchFields = map[string]bool{"namaproduk": true, "deskripsi": true}
	productSortFields   = map[string]bool{"namaproduk": true, "harga": true, "total": true}
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	logger zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// ListProducts retrieves a page of products.
func (s *ProductService) ListProducts(query ListQuery) ([]models.Product, error) {
	opts, err := query.listOptions(productSearchFields, productSortFields)
	if err != nil {
		return nil, err
	}
	return s.repo.List(opts)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(id string) (*models.ProductView, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	view := product.View()
	return &view, nil
}

// CreateProduct inserts a new product; the store assigns its ID.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return fmt.Errorf("%w: create product: %w", ErrWriteFailed, err)
	}
	publishEvent(s.logger, s.events, EventProductCreated, productPayload(product))
	return nil
}

// UpdateProduct replaces every mutable field of the product behind id.
func (s *ProductService) UpdateProduct(id string, product *models.Product) error {
	return mutateExisting(id, s.repo.GetByID, ErrProductNotFound, func(*models.Product) error {
		product.ID = id
		if err := translateWrite("update product", s.repo.Update(product), ErrProductNotFound); err != nil {
			return err
		}
		publishEvent(s.logger, s.events, EventProductUpdated, productPayload(product))
		return nil
	})
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return mutateExisting(id, s.repo.GetByID, ErrProductNotFound, func(*models.Product) error {
		if err := translateWrite("delete product", s.repo.Delete(id), ErrProductNotFound); err != nil {
			return err
		}
		publishEvent(s.logger, s.events, EventProductDeleted, map[string]interface{}{"idproduk": id})
		return nil
	})
}

func productPayload(p *models.Product) map[string]interface{} {
	return map[string]interface{}{
		"idproduk":   p.ID,
		"namaproduk": p.Name,
		"deskripsi":  p.Description,
		"harga":      p.Price,
		"total":      p.Quantity,
	}
}
