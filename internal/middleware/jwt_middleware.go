package middleware

import (
	"strings"

	"pasar/internal/errs"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Locals keys populated by AuthRequired.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return errs.New(errs.KindUnauthorized, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return errs.New(errs.KindUnauthorized, "Authorization header format must be 'Bearer <token>'")
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return errs.New(errs.KindUnauthorized, "Invalid or expired token")
		}

		c.Locals(LocalUserID, claims["user_id"])
		c.Locals(LocalEmail, claims["email"])

		return c.Next()
	}
}
