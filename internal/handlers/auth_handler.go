package handlers

import (
	"pasar/internal/services"
	"pasar/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validator   *validation.Validator
	logger      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validator *validation.Validator, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
		logger:      logger,
	}
}

// RegisterRoutes registers POST /authentication. guards run before the
// login handler, typically a rate limiter.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	chain := append(guards, h.HandleLogin)
	router.Post("/authentication", chain...)
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := h.validator.BindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		h.logger.Info().Str("email", req.Email).Msg("login rejected")
		return serviceError(err, "Login failed")
	}

	return c.JSON(result)
}
