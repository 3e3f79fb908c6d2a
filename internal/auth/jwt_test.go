package auth

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

const testUserID = "0b37bd9e-6f3a-4f8e-9f6a-2f5a4f1c9d21"

func protectedApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{Middleware(testSecret)}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		uid, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(uid)
	})
	app.Get("/protected", chain...)
	return app
}

func TestMiddlewareRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, testUserID, RolePastor)
	require.NoError(t, err)

	app := protectedApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, testUserID, string(body))
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	app := protectedApp()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("other-secret"), testUserID, RoleMember)
	require.NoError(t, err)

	app := protectedApp()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app := protectedApp(RequireRoles(RoleAdmin, RolePastor))

	t.Run("allowed role passes", func(t *testing.T) {
		token, err := GenerateToken(testSecret, testUserID, RolePastor)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		token, err := GenerateToken(testSecret, testUserID, RoleMember)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
