package users

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexbart/Church-management/internal/sequence"
)

func loginApp(mock pgxmock.PgxPoolIface) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	h := NewAuthHandler(NewRepository(mock), sequence.NewAllocator(mock), []byte("test-secret"))
	app.Post("/api/auth/login", h.Login)
	return app
}

func credentialRows(t *testing.T, email, password string) *pgxmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "user_id", "first_name", "last_name", "email", "role",
		"is_active", "created_by", "created_at", "updated_at", "password_hash",
	}).AddRow("u1", "USR00001", "Grace", "Mwangi", email, "member",
		true, (*string)(nil), now, now, string(hash))
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM users WHERE email`).
			WithArgs("grace@example.com").
			WillReturnRows(credentialRows(t, "grace@example.com", "hunter22"))

		app := loginApp(mock)
		req := httptest.NewRequest("POST", "/api/auth/login",
			strings.NewReader(`{"email":"Grace@Example.com","password":"hunter22"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Success bool `json:"success"`
			Data    struct {
				Token string `json:"token"`
				User  User   `json:"user"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.NotEmpty(t, body.Data.Token)
		assert.Equal(t, "USR00001", body.Data.User.UserID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM users WHERE email`).
			WithArgs("grace@example.com").
			WillReturnRows(credentialRows(t, "grace@example.com", "hunter22"))

		app := loginApp(mock)
		req := httptest.NewRequest("POST", "/api/auth/login",
			strings.NewReader(`{"email":"grace@example.com","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM users WHERE email`).
			WithArgs("nobody@example.com").
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "user_id", "first_name", "last_name", "email", "role",
				"is_active", "created_by", "created_at", "updated_at", "password_hash",
			}))

		app := loginApp(mock)
		req := httptest.NewRequest("POST", "/api/auth/login",
			strings.NewReader(`{"email":"nobody@example.com","password":"whatever"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing fields are a bad request", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		app := loginApp(mock)
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":""}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
