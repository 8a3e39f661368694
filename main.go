package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/logger"
	"pasar/internal/server"
	"pasar/internal/services"
	"pasar/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.App.LogLevel, cfg.App.LogPretty)

	// --- Database ---
	store, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	// --- Events ---
	// events stays a nil interface when no broker is configured.
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQ.URL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{
			URL:   cfg.RabbitMQ.URL,
			Queue: cfg.RabbitMQ.Queue,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		events = mqClient

		audit := log.With().Str("component", "audit").Logger()
		if err := mqClient.ConsumeEvents(rabbitmq.AuditHandler(audit)); err != nil {
			log.Error().Err(err).Msg("failed to start event consumer")
		}
	} else {
		log.Warn().Msg("RABBITMQ_URL not set, domain events are disabled")
	}

	// --- Services ---
	hasher := services.NewBcryptHasher(cfg.Auth.BcryptCost)
	userService := services.NewUserService(store.Users, hasher, events, log)
	productService := services.NewProductService(store.Products, events, log)
	authService := services.NewAuthService(store.Users, hasher, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if err := seedDefaultUser(userService, cfg.Seed, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default user")
	}

	app := server.New(server.Deps{
		Config:        cfg,
		Logger:        log,
		Store:         store,
		Users:         userService,
		Products:      productService,
		Auth:          authService,
		EventsEnabled: mqClient != nil,
	})

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.App.Port).Msg("starting server")
		if err := app.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.Timeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("error closing database")
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing RabbitMQ client")
		}
	}
	log.Info().Msg("server gracefully stopped")
}

// seedDefaultUser creates the configured account unless its email is already
// registered. An empty seed email disables seeding.
func seedDefaultUser(users *services.UserService, seed config.SeedConfig, log zerolog.Logger) error {
	if seed.Email == "" {
		return nil
	}

	registered, err := users.EmailIsRegistered(seed.Email)
	if err != nil {
		return err
	}
	if registered {
		log.Debug().Str("email", seed.Email).Msg("default user already present")
		return nil
	}

	user, err := users.CreateUser(seed.Name, seed.Email, seed.Password)
	if err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("seeded default user")
	return nil
}
