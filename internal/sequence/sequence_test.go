package sequence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_Next(t *testing.T) {
	t.Run("first allocation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`INSERT INTO number_series`).
			WithArgs(PrefixRevenue).
			WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(1)))

		a := NewAllocator(mock)
		assert.Equal(t, "REV00001", a.Next(context.Background(), PrefixRevenue))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("subsequent allocation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`INSERT INTO number_series`).
			WithArgs(PrefixExpense).
			WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(2)))

		a := NewAllocator(mock)
		assert.Equal(t, "EXP00002", a.Next(context.Background(), PrefixExpense))
	})

	t.Run("wide counter keeps prefix", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`INSERT INTO number_series`).
			WithArgs(PrefixUser).
			WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(123456)))

		a := NewAllocator(mock)
		assert.Equal(t, "USR123456", a.Next(context.Background(), PrefixUser))
	})

	t.Run("falls back to timestamp suffix on error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`INSERT INTO number_series`).
			WithArgs(PrefixRevenue).
			WillReturnError(errors.New("connection refused"))

		a := NewAllocator(mock)
		got := a.Next(context.Background(), PrefixRevenue)
		assert.Regexp(t, regexp.MustCompile(`^REV\d{5}$`), got)
	})
}
