package database

import (
	"context"
	"fmt"

	"pasar/internal/config"
	"pasar/internal/repositories"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func openMongo(cfg config.DatabaseConfig, log zerolog.Logger) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = repositories.DefaultMongoTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	db := client.Database(cfg.MongoDatabase)
	users := repositories.NewMongoUserRepository(db, timeout)
	if err := users.EnsureIndexes(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Store{
		Driver:   cfg.Driver,
		Users:    users,
		Products: repositories.NewMongoProductRepository(db, timeout),
		ping: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}
