package services_test

import (
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(opts repositories.ListOptions) ([]models.User, error) {
	args := m.Called(opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepository) Update(id, name, email string) error {
	return m.Called(id, name, email).Error(0)
}

func (m *MockUserRepository) UpdatePassword(id, passwordHash string) error {
	return m.Called(id, passwordHash).Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(opts repositories.ListOptions) ([]models.Product, error) {
	args := m.Called(opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

// MockPublisher records published events. Tests pass an untyped nil instead
// of a nil *MockPublisher to disable publishing.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(event string, payload map[string]interface{}) error {
	return m.Called(event, payload).Error(0)
}
