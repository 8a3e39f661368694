// Package server assembles the Fiber application: middleware, routes and
// the error handler.
package server

import (
	"context"
	"time"

	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/handlers"
	"pasar/internal/middleware"
	"pasar/internal/services"
	"pasar/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

const healthTimeout = 2 * time.Second

// Deps are the collaborators the HTTP layer is built on.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    *database.Store
	Users    *services.UserService
	Products *services.ProductService
	Auth     *services.AuthService
	// EventsEnabled reports whether domain events reach a broker.
	EventsEnabled bool
}

// New builds the application with every route registered.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "pasar",
		ErrorHandler:          handlers.ErrorHandler(deps.Logger),
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: deps.Config.App.Env != "production"}))
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: deps.Config.App.CORSAllowOrigins}))
	app.Use(middleware.RequestLogger(deps.Logger))

	app.Get("/health", healthHandler(deps))

	validator := validation.New()

	authHandler := handlers.NewAuthHandler(deps.Auth, validator, deps.Logger)
	authHandler.RegisterRoutes(app, middleware.LoginRateLimit(
		deps.Config.Auth.LoginAttemptLimit,
		deps.Config.Auth.LoginAttemptWindow,
	))

	authRequired := middleware.AuthRequired(deps.Auth, deps.Logger)
	handlers.NewUserHandler(deps.Users, validator).RegisterRoutes(app, authRequired)
	handlers.NewProductHandler(deps.Products, validator).RegisterRoutes(app, authRequired)

	return app
}

func healthHandler(deps Deps) fiber.Handler {
	events := "disabled"
	if deps.EventsEnabled {
		events = "connected"
	}

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()

		status, code := "healthy", fiber.StatusOK
		if err := deps.Store.Ping(ctx); err != nil {
			deps.Logger.Error().Err(err).Msg("health check failed")
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": deps.Store.Driver,
			"events":   events,
		})
	}
}
