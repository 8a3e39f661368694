package middleware

import (
	"time"

	"pasar/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// LoginRateLimit allows limit login attempts per client IP within window.
func LoginRateLimit(limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return errs.New(errs.KindTooManyRequests, "Too many login attempts, try again later")
		},
	})
}
