package handlers

import (
	"pasar/internal/models"
	"pasar/internal/services"
	"pasar/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the /produk resource.
type ProductHandler struct {
	productService *services.ProductService
	validator      *validation.Validator
}

func NewProductHandler(productService *services.ProductService, validator *validation.Validator) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator,
	}
}

func (h *ProductHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	produk := router.Group("/produk", guards...)
	produk.Get("/", h.ListProducts)
	produk.Post("/", h.CreateProduct)
	produk.Get("/:id", h.GetProduct)
	produk.Put("/:id", h.UpdateProduct)
	produk.Delete("/:id", h.DeleteProduct)
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	query := listQuery(c)
	products, err := h.productService.ListProducts(query)
	if err != nil {
		return serviceError(err, "gagal memuat produk")
	}
	return c.JSON(PageResponse{
		PageNumber: query.PageNumber,
		PageSize:   query.PageSize,
		Count:      len(products),
		Data:       products,
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProduct(c.Params("id"))
	if err != nil {
		return serviceError(err, "gagal memuat produk")
	}
	return c.JSON(product)
}

// CreateProduct echoes the accepted body together with the assigned id.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := h.validator.BindAndValidate(c, &req); err != nil {
		return err
	}

	product := req.model()
	if err := h.productService.CreateProduct(product); err != nil {
		return serviceError(err, "gagal membuat produk")
	}
	return c.JSON(productEcho(product))
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := h.validator.BindAndValidate(c, &req); err != nil {
		return err
	}

	id := c.Params("id")
	if err := h.productService.UpdateProduct(id, req.model()); err != nil {
		return serviceError(err, "gagal memperbarui produk")
	}
	return c.JSON(fiber.Map{"idproduk": id})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.productService.DeleteProduct(id); err != nil {
		return serviceError(err, "gagal menghapus produk")
	}
	return c.JSON(fiber.Map{"idproduk": id})
}

func productEcho(p *models.Product) fiber.Map {
	return fiber.Map{
		"idproduk":   p.ID,
		"namaproduk": p.Name,
		"deskripsi":  p.Description,
		"harga":      p.Price,
		"total":      p.Quantity,
	}
}
