package database_test

import (
	"context"
	"fmt"
	"testing"

	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesAndServesRepositories(t *testing.T) {
	store, err := database.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close(context.Background())

	assert.NoError(t, store.Ping(context.Background()))

	user := &models.User{Name: "A", Email: "a@x.com", Password: "digest"}
	require.NoError(t, store.Users.Create(user))
	got, err := store.Users.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestOpen_Memory(t *testing.T) {
	store, err := database.Open(config.DatabaseConfig{Driver: config.DriverMemory}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, store.Driver)
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "cassandra"}, zerolog.Nop())
	assert.Error(t, err)
}
