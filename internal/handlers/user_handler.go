package handlers

import (
	"pasar/internal/errs"
	"pasar/internal/services"
	"pasar/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the /users resource.
type UserHandler struct {
	userService *services.UserService
	validator   *validation.Validator
}

func NewUserHandler(userService *services.UserService, validator *validation.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

// RegisterRoutes registers the /users routes behind guards.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	users := router.Group("/users", guards...)
	users.Get("/", h.ListUsers)
	users.Post("/", h.CreateUser)
	users.Get("/:id", h.GetUser)
	users.Put("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeleteUser)
	users.Post("/:id/change-password", h.ChangePassword)
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	query := listQuery(c)
	users, err := h.userService.ListUsers(query)
	if err != nil {
		return serviceError(err, "Failed to list users")
	}
	return c.JSON(PageResponse{
		PageNumber: query.PageNumber,
		PageSize:   query.PageSize,
		Count:      len(users),
		Data:       users,
	})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Params("id"))
	if err != nil {
		return serviceError(err, "Failed to get user")
	}
	return c.JSON(user)
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := h.validator.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Password != req.PasswordConfirm {
		return errs.New(errs.KindInvalidPassword, "Password confirmation mismatched")
	}

	user, err := h.userService.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return serviceError(err, "Failed to create user")
	}
	return c.JSON(user)
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := h.validator.BindAndValidate(c, &req); err != nil {
		return err
	}

	id := c.Params("id")
	if err := h.userService.UpdateUser(id, req.Name, req.Email); err != nil {
		return serviceError(err, "Failed to update user")
	}
	return c.JSON(fiber.Map{"id": id})
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.userService.DeleteUser(id); err != nil {
		return serviceError(err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{"id": id})
}

// ChangePassword requires the current password before storing a new one.
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := h.validator.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.PasswordNew != req.PasswordConfirm {
		return errs.New(errs.KindInvalidPassword, "Password confirmation mismatched")
	}

	id := c.Params("id")
	ok, err := h.userService.CheckPassword(id, req.PasswordOld)
	if err != nil {
		return serviceError(err, "Failed to change password")
	}
	if !ok {
		return errs.New(errs.KindInvalidCredentials, "Wrong password")
	}

	if err := h.userService.ChangePassword(id, req.PasswordNew); err != nil {
		return serviceError(err, "Failed to change password")
	}
	return c.JSON(fiber.Map{"id": id})
}
