package expense

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseRows(id, seqID, status string, cents int64) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "expense_id", "type_id", "name", "amount", "description",
		"date", "status", "approved_by", "created_by", "created_at", "updated_at",
	}).AddRow(id, seqID, "t1", "Utilities", cents, (*string)(nil),
		now, status, (*string)(nil), "u1", now, now)
}

func TestSetStatus(t *testing.T) {
	t.Run("approves a pending expense", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`status = 'pending'`).
			WithArgs("e1", StatusApproved, "u1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = NewRepository(mock).SetStatus(context.Background(), "e1", StatusApproved, "u1")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already decided expense is not pending", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`status = 'pending'`).
			WithArgs("e1", StatusRejected, "u1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`WHERE e.id = \$1::uuid`).
			WithArgs("e1").
			WillReturnRows(expenseRows("e1", "EXP00001", StatusApproved, 2500))

		err = NewRepository(mock).SetStatus(context.Background(), "e1", StatusRejected, "u1")
		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("missing expense is not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`status = 'pending'`).
			WithArgs("missing", StatusApproved, "u1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`WHERE e.id = \$1::uuid`).
			WithArgs("missing").
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "expense_id", "type_id", "name", "amount", "description",
				"date", "status", "approved_by", "created_by", "created_at", "updated_at",
			}))

		err = NewRepository(mock).SetStatus(context.Background(), "missing", StatusApproved, "u1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetByIDConvertsCents(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`WHERE e.id = \$1::uuid`).
		WithArgs("e1").
		WillReturnRows(expenseRows("e1", "EXP00001", StatusPending, 2550))

	got, err := NewRepository(mock).GetByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "EXP00001", got.ExpenseID)
	assert.Equal(t, 25.50, got.Amount)
	assert.Equal(t, StatusPending, got.Status)
}

func TestListTotals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\), COALESCE\(SUM`).
		WithArgs(StatusApproved).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(1), int64(2550)))
	mock.ExpectQuery(`ORDER BY e.date DESC`).
		WithArgs(StatusApproved, 10, 0).
		WillReturnRows(expenseRows("e1", "EXP00001", StatusApproved, 2550))

	items, total, totalCents, err := NewRepository(mock).List(context.Background(), ListFilter{
		Status: StatusApproved, Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(2550), totalCents)
	require.Len(t, items, 1)
	assert.Equal(t, 25.50, items[0].Amount)
}
