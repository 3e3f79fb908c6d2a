package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexbart/Church-management/internal/expense"
	"github.com/alexbart/Church-management/internal/revenue"
	"github.com/alexbart/Church-management/internal/sequence"
	"github.com/alexbart/Church-management/internal/types"
	"github.com/alexbart/Church-management/internal/users"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, cols := range rows {
		for j, v := range cols {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func newImporter(mock pgxmock.PgxPoolIface) *Importer {
	return NewImporter(
		types.NewRepository(mock),
		users.NewRepository(mock),
		revenue.NewRepository(mock),
		expense.NewRepository(mock),
		sequence.NewAllocator(mock),
	)
}

func activeTypeRow(id, name, category string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "category", "description", "is_active", "created_by", "created_at", "updated_at"}).
		AddRow(id, name, category, (*string)(nil), true, "a1", now, now)
}

func TestImportRevenuesPartialSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	src := buildWorkbook(t, [][]any{
		{"Date", "Type", "Amount", "Description"},
		{"2025-03-01", "Tithe", "100.00", "march tithe"},
		{"not-a-date", "Tithe", "50.00", ""},
		{"2025-03-02", "Bake Sale", "20.00", ""},
	})

	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	desc := "march tithe"

	// Row 2 imports.
	mock.ExpectQuery(`FROM transaction_types`).
		WithArgs("Tithe", types.CategoryRevenue).
		WillReturnRows(activeTypeRow("t1", "Tithe", types.CategoryRevenue))
	mock.ExpectQuery(`INSERT INTO number_series`).
		WithArgs(sequence.PrefixRevenue).
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO revenues`).
		WithArgs("REV00001", "t1", int64(10000), &desc, date, (*string)(nil), "u1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("r1"))

	// Row 3 fails before any query. Row 4 fails on the type lookup.
	mock.ExpectQuery(`FROM transaction_types`).
		WithArgs("Bake Sale", types.CategoryRevenue).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "description", "is_active", "created_by", "created_at", "updated_at"}))

	result, err := newImporter(mock).ImportRevenues(context.Background(), src, "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportedCount)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "row 3")
	assert.Contains(t, result.Errors[0], "invalid date")
	assert.Contains(t, result.Errors[1], "row 4")
	assert.Contains(t, result.Errors[1], "Bake Sale")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportExpensesRejectsNegativeAmount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	src := buildWorkbook(t, [][]any{
		{"Date", "Type", "Amount", "Description"},
		{"2025-03-01", "Utilities", "-5.00", ""},
	})

	mock.ExpectQuery(`FROM transaction_types`).
		WithArgs("Utilities", types.CategoryExpense).
		WillReturnRows(activeTypeRow("t2", "Utilities", types.CategoryExpense))

	result, err := newImporter(mock).ImportExpenses(context.Background(), src, "u1")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ImportedCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 2")
}

func TestImportRejectsEmptyWorkbook(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	src := buildWorkbook(t, [][]any{{"Date", "Type", "Amount", "Description"}})

	_, err = newImporter(mock).ImportRevenues(context.Background(), src, "u1")
	assert.ErrorIs(t, err, errEmptyWorkbook)
}
