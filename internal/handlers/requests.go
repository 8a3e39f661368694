package handlers

import (
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,password"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	PasswordOld     string `json:"password_old" validate:"required"`
	PasswordNew     string `json:"password_new" validate:"required,password"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// ProductRequest is the body of POST and PUT /produk. Numbers are pointers so
// that a missing field fails "required" while an explicit 0 is accepted.
type ProductRequest struct {
	Name        string   `json:"namaproduk" validate:"required,min=1,max=100"`
	Description string   `json:"deskripsi" validate:"required,min=1,max=200"`
	Price       *float64 `json:"harga" validate:"required,gte=0"`
	Quantity    *int     `json:"total" validate:"required,gte=0"`
}

func (r *ProductRequest) model() *models.Product {
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Quantity:    *r.Quantity,
	}
}

// PageResponse is the envelope of list endpoints.
type PageResponse struct {
	PageNumber int         `json:"page_number"`
	PageSize   int         `json:"page_size"`
	Count      int         `json:"count"`
	Data       interface{} `json:"data"`
}

func listQuery(c *fiber.Ctx) services.ListQuery {
	return services.ListQuery{
		PageNumber: c.QueryInt("page_number", services.DefaultPageNumber),
		PageSize:   c.QueryInt("page_size", services.DefaultPageSize),
		Search:     c.Query("search"),
		Sort:       c.Query("sort"),
	}.Normalize()
}
