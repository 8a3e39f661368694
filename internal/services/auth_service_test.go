package services_test

import (
	"errors"
	"testing"
	"time"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret"

func storedUser(t *testing.T, password string) *models.User {
	t.Helper()
	digest, err := testHasher.Hash(password)
	require.NoError(t, err)
	return &models.User{ID: "u-1", Name: "Budi", Email: "budi@pasar.test", Password: digest}
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	repo := new(MockUserRepository)
	service := services.NewAuthService(repo, testHasher, testSecret, time.Hour)

	repo.On("GetByEmail", "budi@pasar.test").Return(storedUser(t, "S3cret!pw"), nil).Once()

	result, err := service.Login("budi@pasar.test", "S3cret!pw")
	require.NoError(t, err)
	assert.Equal(t, "u-1", result.UserID)
	assert.Equal(t, "Budi", result.Name)
	assert.Equal(t, "budi@pasar.test", result.Email)

	claims, err := service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims["user_id"])
	assert.Equal(t, "budi@pasar.test", claims["email"])
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.InDelta(t, float64(time.Now().Add(time.Hour).Unix()), exp, 5)
	repo.AssertExpectations(t)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	service := services.NewAuthService(repo, testHasher, testSecret, time.Hour)

	repo.On("GetByEmail", "budi@pasar.test").Return(storedUser(t, "S3cret!pw"), nil).Once()
	repo.On("GetByEmail", "nobody@pasar.test").Return(nil, repositories.ErrNotFound).Once()
	repo.On("GetByEmail", "broken@pasar.test").Return(nil, errors.New("connection reset")).Once()

	_, err := service.Login("budi@pasar.test", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = service.Login("nobody@pasar.test", "S3cret!pw")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = service.Login("broken@pasar.test", "S3cret!pw")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_ValidateToken(t *testing.T) {
	service := services.NewAuthService(new(MockUserRepository), testHasher, testSecret, time.Hour)

	sign := func(secret string, method jwt.SigningMethod, exp time.Time) string {
		token := jwt.NewWithClaims(method, jwt.MapClaims{"user_id": "u-1", "exp": exp.Unix()})
		s, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	_, err := service.ValidateToken(sign(testSecret, jwt.SigningMethodHS256, time.Now().Add(time.Minute)))
	assert.NoError(t, err)

	_, err = service.ValidateToken(sign("other_secret", jwt.SigningMethodHS256, time.Now().Add(time.Minute)))
	assert.Error(t, err, "foreign signature")

	_, err = service.ValidateToken(sign(testSecret, jwt.SigningMethodHS256, time.Now().Add(-time.Minute)))
	assert.Error(t, err, "expired")

	_, err = service.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestNewAuthService_DefaultTTL(t *testing.T) {
	repo := new(MockUserRepository)
	service := services.NewAuthService(repo, testHasher, testSecret, 0)

	repo.On("GetByEmail", "budi@pasar.test").Return(storedUser(t, "S3cret!pw"), nil).Once()

	result, err := service.Login("budi@pasar.test", "S3cret!pw")
	require.NoError(t, err)
	claims, err := service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.InDelta(t, float64(time.Now().Add(services.DefaultTokenTTL).Unix()), claims["exp"].(float64), 5)
}
