package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pasar/internal/config"
	"pasar/internal/database"
	"pasar/internal/server"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@pasar.test"
	adminPassword = "Adm1n!pass"
)

// setupApp builds the full application on a private in-memory SQLite
// database with one seeded user, and returns it with a valid token.
func setupApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", CORSAllowOrigins: "*"},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
		Auth: config.AuthConfig{
			JWTSecret:          "test_jwt_secret",
			TokenTTL:           time.Hour,
			LoginAttemptLimit:  100,
			LoginAttemptWindow: time.Minute,
		},
	}

	store, err := database.Open(cfg.Database, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	hasher := services.NewBcryptHasher(bcrypt.MinCost)
	users := services.NewUserService(store.Users, hasher, nil, zerolog.Nop())
	_, err = users.CreateUser("Admin", adminEmail, adminPassword)
	require.NoError(t, err)

	app := server.New(server.Deps{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Store:    store,
		Users:    users,
		Products: services.NewProductService(store.Products, nil, zerolog.Nop()),
		Auth:     services.NewAuthService(store.Users, hasher, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	})

	status, body := doJSON(t, app, http.MethodPost, "/authentication", "", map[string]interface{}{
		"email": adminEmail, "password": adminPassword,
	})
	require.Equal(t, http.StatusOK, status, body)
	return app, body["token"].(string)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func newUserPayload(name, email string) map[string]interface{} {
	return map[string]interface{}{
		"name":             name,
		"email":            email,
		"password":         "S3cret!pw",
		"password_confirm": "S3cret!pw",
	}
}

func TestLogin(t *testing.T) {
	app, _ := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/authentication", "", map[string]interface{}{
		"email": adminEmail, "password": adminPassword,
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, adminEmail, body["email"])
	assert.Equal(t, "Admin", body["name"])
	assert.NotEmpty(t, body["user_id"])
	assert.NotEmpty(t, body["token"])

	status, body = doJSON(t, app, http.MethodPost, "/authentication", "", map[string]interface{}{
		"email": adminEmail, "password": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INVALID_CREDENTIALS_ERROR", body["error"])

	status, body = doJSON(t, app, http.MethodPost, "/authentication", "", map[string]interface{}{
		"email": "nobody@pasar.test", "password": adminPassword,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INVALID_CREDENTIALS_ERROR", body["error"])

	status, body = doJSON(t, app, http.MethodPost, "/authentication", "", map[string]interface{}{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/users", "/produk"} {
		status, body := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.Equal(t, "INVALID_TOKEN_ERROR", body["error"], path)

		status, _ = doJSON(t, app, http.MethodGet, path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
}

func TestUserLifecycle(t *testing.T) {
	app, token := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/users", token, newUserPayload("Siti", "siti@pasar.test"))
	require.Equal(t, http.StatusOK, status, body)
	id := body["id"].(string)
	assert.Equal(t, "Siti", body["name"])
	assert.Equal(t, "siti@pasar.test", body["email"])
	assert.NotContains(t, body, "password")

	status, body = doJSON(t, app, http.MethodGet, "/users/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"id": id, "name": "Siti", "email": "siti@pasar.test"}, body)

	// Same email again is idempotent for the owner.
	status, body = doJSON(t, app, http.MethodPut, "/users/"+id, token, map[string]interface{}{
		"name": "Siti Aminah", "email": "siti@pasar.test",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, id, body["id"])

	status, body = doJSON(t, app, http.MethodPut, "/users/"+id, token, map[string]interface{}{
		"name": "Siti", "email": adminEmail,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_ALREADY_TAKEN_ERROR", body["error"])

	status, body = doJSON(t, app, http.MethodGet, "/users/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Siti Aminah", body["name"])

	status, _ = doJSON(t, app, http.MethodDelete, "/users/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/users/"+id, token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "UNKNOWN_RESOURCE_ERROR", body["error"])

	status, _ = doJSON(t, app, http.MethodDelete, "/users/"+id, token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestCreateUserRejections(t *testing.T) {
	app, token := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/users", token, newUserPayload("Admin Two", adminEmail))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EMAIL_ALREADY_TAKEN_ERROR", body["error"])

	mismatch := newUserPayload("Siti", "siti@pasar.test")
	mismatch["password_confirm"] = "Other!pw1"
	status, body = doJSON(t, app, http.MethodPost, "/users", token, mismatch)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_PASSWORD_ERROR", body["error"])

	weak := newUserPayload("Siti", "siti@pasar.test")
	weak["password"], weak["password_confirm"] = "password", "password"
	status, body = doJSON(t, app, http.MethodPost, "/users", token, weak)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
	fields, ok := body["validation_errors"].([]interface{})
	require.True(t, ok, body)
	require.Len(t, fields, 1)
	assert.Equal(t, "password", fields[0].(map[string]interface{})["field"])

	status, body = doJSON(t, app, http.MethodGet, "/users/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "UNKNOWN_RESOURCE_ERROR", body["error"])
}

func TestChangePassword(t *testing.T) {
	app, token := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/users", token, newUserPayload("Siti", "siti@pasar.test"))
	require.Equal(t, http.StatusOK, status, body)
	path := "/users/" + body["id"].(string) + "/change-password"

	status, body = doJSON(t, app, http.MethodPost, path, token, map[string]interface{}{
		"password_old": "Wrong!pw1", "password_new": "N3w!passw", "password_confirm": "N3w!passw",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INVALID_CREDENTIALS_ERROR", body["error"])

	status, body = doJSON(t, app, http.MethodPost, path, token, map[string]interface{}{
		"password_old": "S3cret!pw", "password_new": "N3w!passw", "password_confirm": "N3w!passw!",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_PASSWORD_ERROR", body["error"])

	status, body = doJSON(t, app, http.MethodPost, path, token, map[string]interface{}{
		"password_old": "S3cret!pw", "password_new": "N3w!passw", "password_confirm": "N3w!passw",
	})
	require.Equal(t, http.StatusOK, status, body)

	status, _ = doJSON(t, app, http.MethodPost, "/authentication", "", map[string]interface{}{
		"email": "siti@pasar.test", "password": "S3cret!pw",
	})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = doJSON(t, app, http.MethodPost, "/authentication", "", map[string]interface{}{
		"email": "siti@pasar.test", "password": "N3w!passw",
	})
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodPost, "/users/"+uuid.NewString()+"/change-password", token, map[string]interface{}{
		"password_old": "S3cret!pw", "password_new": "N3w!passw", "password_confirm": "N3w!passw",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "UNKNOWN_RESOURCE_ERROR", body["error"])
}

func TestListUsersPagination(t *testing.T) {
	app, token := setupApp(t)

	for i := 0; i < 4; i++ {
		status, body := doJSON(t, app, http.MethodPost, "/users", token,
			newUserPayload(fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@pasar.test", i)))
		require.Equal(t, http.StatusOK, status, body)
	}

	status, body := doJSON(t, app, http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["page_number"])
	assert.EqualValues(t, 3, body["page_size"])
	assert.EqualValues(t, 3, body["count"])

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/users?page_number=%d&page_size=2&sort=email", page), token, nil)
		require.Equal(t, http.StatusOK, status)
		for _, item := range body["data"].([]interface{}) {
			user := item.(map[string]interface{})
			assert.NotContains(t, user, "password")
			id := user["id"].(string)
			assert.False(t, seen[id], "user %s listed twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 5)

	status, body = doJSON(t, app, http.MethodGet, "/users?search=email:user1", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/users?sort=password", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
}

func TestProductLifecycle(t *testing.T) {
	app, token := setupApp(t)

	payload := map[string]interface{}{
		"namaproduk": "Kopi Gayo", "deskripsi": "Kopi arabika Aceh", "harga": 85000.5, "total": 0,
	}
	status, body := doJSON(t, app, http.MethodPost, "/produk", token, payload)
	require.Equal(t, http.StatusOK, status, body)
	id := body["idproduk"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Kopi Gayo", body["namaproduk"])
	assert.Equal(t, 85000.5, body["harga"])
	assert.EqualValues(t, 0, body["total"])

	status, body = doJSON(t, app, http.MethodGet, "/produk/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{
		"idproduk": id, "namaproduk": "Kopi Gayo", "deskripsi": "Kopi arabika Aceh", "total": float64(0),
	}, body)

	payload["total"] = 12
	status, body = doJSON(t, app, http.MethodPut, "/produk/"+id, token, payload)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, map[string]interface{}{"idproduk": id}, body)

	status, body = doJSON(t, app, http.MethodGet, "/produk", token, nil)
	require.Equal(t, http.StatusOK, status)
	items := body["data"].([]interface{})
	require.Len(t, items, 1)
	listed := items[0].(map[string]interface{})
	assert.EqualValues(t, 12, listed["total"])
	assert.Equal(t, 85000.5, listed["harga"])

	status, body = doJSON(t, app, http.MethodDelete, "/produk/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, body["idproduk"])

	status, body = doJSON(t, app, http.MethodGet, "/produk/"+id, token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "UNKNOWN_RESOURCE_ERROR", body["error"])

	status, _ = doJSON(t, app, http.MethodPut, "/produk/"+id, token, payload)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestCreateProductValidation(t *testing.T) {
	app, token := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/produk", token, map[string]interface{}{
		"namaproduk": "Teh", "deskripsi": "Teh melati", "total": 3,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])

	status, _ = doJSON(t, app, http.MethodPost, "/produk", token, map[string]interface{}{
		"namaproduk": "Teh", "deskripsi": "Teh melati", "harga": -1, "total": 3,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
