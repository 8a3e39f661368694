// Package database opens the configured store once at startup and hands the
// repositories built on it to the rest of the application.
package database

import (
	"context"
	"fmt"

	"pasar/internal/config"
	"pasar/internal/repositories"

	"github.com/rs/zerolog"
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Driver   string
	Users    repositories.UserRepository
	Products repositories.ProductRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend selected by cfg.Driver.
func Open(cfg config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	log := logger.With().Str("component", "database").Str("driver", cfg.Driver).Logger()

	var (
		store *Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverMongo:
		store, err = openMongo(cfg, log)
	case config.DriverPostgres, config.DriverSQLite:
		store, err = openGORM(cfg, log)
	case config.DriverMemory:
		store = NewMemoryStore()
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Msg("database ready")
	return store, nil
}

// NewMemoryStore returns a process-local store. Its data is lost on exit.
func NewMemoryStore() *Store {
	return &Store{
		Driver:   config.DriverMemory,
		Users:    repositories.NewMemoryUserRepository(),
		Products: repositories.NewMemoryProductRepository(),
	}
}
