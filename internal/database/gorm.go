package database

import (
	"context"
	"fmt"
	"time"

	"pasar/internal/config"
	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// gormWriter routes GORM's SQL log through zerolog at debug level.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Msgf(format, args...)
}

func openGORM(cfg config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q is not served by gorm", cfg.Driver)
	}

	level := gormlogger.Warn
	if log.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// Maps unique violations to gorm.ErrDuplicatedKey for the repositories.
		TranslateError: true,
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	timeout := cfg.Timeout
	return &Store{
		Driver:   cfg.Driver,
		Users:    repositories.NewGORMUserRepository(db),
		Products: repositories.NewGORMProductRepository(db),
		ping: func(ctx context.Context) error {
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return sqlDB.PingContext(ctx)
		},
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}
