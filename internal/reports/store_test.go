package reports

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexbart/Church-management/internal/types"
)

func lineRows(rows ...[]any) *pgxmock.Rows {
	out := pgxmock.NewRows([]string{"seq_id", "name", "amount", "description", "member", "date"})
	for _, r := range rows {
		out.AddRow(r...)
	}
	return out
}

func TestStoreFetch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mar1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mar2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM revenues r`).
		WillReturnRows(lineRows(
			[]any{"REV00001", "Tithe", int64(10000), "march tithe", "Grace Mwangi", mar1},
			[]any{"REV00002", "Offering", int64(500), "", "", mar2},
		))
	mock.ExpectQuery(`FROM expenses e`).
		WillReturnRows(lineRows(
			[]any{"EXP00001", "Utilities", int64(7300), "power bill", "", mar1},
		))

	r, err := NewStore(mock).Fetch(context.Background(), Filter{})
	require.NoError(t, err)

	require.Len(t, r.Revenues, 2)
	require.Len(t, r.Expenses, 1)
	assert.Equal(t, "REV00001", r.Revenues[0].SeqID)
	assert.Equal(t, "Grace Mwangi", r.Revenues[0].MemberName)
	assert.Equal(t, int64(10500), r.Summary.RevenueTotalCents)
	assert.Equal(t, int64(7300), r.Summary.ExpenseTotalCents)
	assert.Equal(t, int64(3200), r.Summary.NetTotalCents())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFetchAppliesFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 999000000, time.UTC)

	mock.ExpectQuery(`FROM revenues r`).
		WithArgs(start, end, "t1").
		WillReturnRows(lineRows())
	mock.ExpectQuery(`FROM expenses e`).
		WithArgs(start, end, "t1").
		WillReturnRows(lineRows())

	r, err := NewStore(mock).Fetch(context.Background(), Filter{Start: &start, End: &end, TypeID: "t1"})
	require.NoError(t, err)

	assert.Empty(t, r.Revenues)
	assert.Empty(t, r.Expenses)
	assert.Equal(t, int64(0), r.Summary.NetTotalCents())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFetchCategoryFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mar1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Only the revenue side is queried when the category narrows the report.
	mock.ExpectQuery(`FROM revenues r`).
		WillReturnRows(lineRows(
			[]any{"REV00001", "Tithe", int64(10000), "march tithe", "Grace Mwangi", mar1},
		))

	r, err := NewStore(mock).Fetch(context.Background(), Filter{Category: types.CategoryRevenue})
	require.NoError(t, err)

	require.Len(t, r.Revenues, 1)
	assert.Empty(t, r.Expenses)
	assert.Equal(t, int64(10000), r.Summary.RevenueTotalCents)
	assert.Equal(t, int64(0), r.Summary.ExpenseTotalCents)
	require.NoError(t, mock.ExpectationsWereMet())
}
