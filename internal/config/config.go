// Package config loads runtime settings from the environment and an optional
// config file through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported DATABASE_DRIVER values.
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type AppConfig struct {
	Port             string
	Env              string
	LogLevel         string
	LogPretty        bool
	CORSAllowOrigins string
}

type DatabaseConfig struct {
	Driver        string
	DSN           string
	MongoURI      string
	MongoDatabase string
	Timeout       time.Duration
}

type AuthConfig struct {
	JWTSecret          string
	TokenTTL           time.Duration
	LoginAttemptLimit  int
	LoginAttemptWindow time.Duration
	BcryptCost         int
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

// SeedConfig describes the default account created on startup.
type SeedConfig struct {
	Name     string
	Email    string
	Password string
}

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	RabbitMQ RabbitMQConfig
	Seed     SeedConfig
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")

	v.SetDefault("DATABASE_DRIVER", DriverMongo)
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "pasar")
	v.SetDefault("DATABASE_TIMEOUT", 5*time.Second)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("LOGIN_ATTEMPT_LIMIT", 5)
	v.SetDefault("LOGIN_ATTEMPT_WINDOW", 30*time.Minute)
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "pasar_events")

	v.SetDefault("SEED_USER_NAME", "")
	v.SetDefault("SEED_USER_EMAIL", "")
	v.SetDefault("SEED_USER_PASSWORD", "")
}

// Load reads config.yaml from the working directory if present, then the
// environment, which wins.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Port:             v.GetString("APP_PORT"),
			Env:              v.GetString("APP_ENV"),
			LogLevel:         v.GetString("LOG_LEVEL"),
			LogPretty:        v.GetBool("LOG_PRETTY"),
			CORSAllowOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:           v.GetString("DATABASE_DSN"),
			MongoURI:      v.GetString("MONGODB_URI"),
			MongoDatabase: v.GetString("MONGODB_DATABASE"),
			Timeout:       v.GetDuration("DATABASE_TIMEOUT"),
		},
		Auth: AuthConfig{
			JWTSecret:          v.GetString("JWT_SECRET"),
			TokenTTL:           v.GetDuration("JWT_TTL"),
			LoginAttemptLimit:  v.GetInt("LOGIN_ATTEMPT_LIMIT"),
			LoginAttemptWindow: v.GetDuration("LOGIN_ATTEMPT_WINDOW"),
			BcryptCost:         v.GetInt("BCRYPT_COST"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Seed: SeedConfig{
			Name:     v.GetString("SEED_USER_NAME"),
			Email:    v.GetString("SEED_USER_EMAIL"),
			Password: v.GetString("SEED_USER_PASSWORD"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" || c.Database.MongoDatabase == "" {
			return errors.New("MONGODB_URI and MONGODB_DATABASE are required for the mongodb driver")
		}
	case DriverPostgres, DriverSQLite:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the %s driver", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Seed.Email != "" && c.Seed.Password == "" {
		return errors.New("SEED_USER_PASSWORD is required when SEED_USER_EMAIL is set")
	}
	return nil
}
