package expense

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexbart/Church-management/internal/sequence"
	"github.com/alexbart/Church-management/internal/types"
)

func expenseApp(mock pgxmock.PgxPoolIface) *fiber.App {
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
	h := NewHandler(NewRepository(mock), types.NewRepository(mock), sequence.NewAllocator(mock))
	app.Get("/api/expenses", h.List)
	app.Get("/api/expenses/:id", h.Get)
	return app
}

func TestExpenseIDValidation(t *testing.T) {
	t.Run("malformed id is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		app := expenseApp(mock)
		resp, err := app.Test(httptest.NewRequest("GET", "/api/expenses/EXP00001", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed type filter is a bad request", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		app := expenseApp(mock)
		resp, err := app.Test(httptest.NewRequest("GET", "/api/expenses?type=rent", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
