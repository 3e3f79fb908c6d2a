package reports

import (
	"bytes"
	"strconv"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexbart/Church-management/internal/money"
)

func renderFixture() Report {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	revenues := []Line{
		{SeqID: "REV00001", TypeName: "Tithe", AmountCents: 10500, Description: "January tithe", MemberName: "Grace Mwangi", Date: start},
		{SeqID: "REV00002", TypeName: "Offering", AmountCents: 2550, Date: start.AddDate(0, 0, 7)},
	}
	expenses := []Line{
		{SeqID: "EXP00001", TypeName: "Utilities", AmountCents: 4200, Description: "Electricity", Date: start.AddDate(0, 0, 10)},
	}
	return Report{
		Revenues: revenues,
		Expenses: expenses,
		Summary:  Summarize(revenues, expenses),
		Start:    &start,
		End:      &end,
	}
}

// sumAmountColumn adds up column D of a detail sheet, skipping the header.
func sumAmountColumn(t *testing.T, f *excelize.File, sheet string) int64 {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	var total int64
	for _, row := range rows[1:] {
		require.GreaterOrEqual(t, len(row), 4, "detail row in %s is missing the amount", sheet)
		amount, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		cents, err := money.ToCents(amount)
		require.NoError(t, err)
		total += cents
	}
	return total
}

func TestRenderExcel(t *testing.T) {
	r := renderFixture()

	out, err := RenderExcel(r)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	for _, want := range []string{
		sheetSummary, sheetRevenueByType, sheetExpenseByType,
		sheetRevenueDetails, sheetExpenseDetails,
	} {
		assert.Contains(t, sheets, want)
	}

	assert.Equal(t, r.Summary.RevenueTotalCents, sumAmountColumn(t, f, sheetRevenueDetails))
	assert.Equal(t, r.Summary.ExpenseTotalCents, sumAmountColumn(t, f, sheetExpenseDetails))

	rows, err := f.GetRows(sheetRevenueDetails)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "REV00001", rows[1][0])
	assert.Equal(t, "Grace Mwangi", rows[1][5])
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(renderFixture())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTrimTo(t *testing.T) {
	assert.Equal(t, "short", trimTo("short", 10))
	assert.Equal(t, "ab…", trimTo("abcdef", 3))

	got := trimTo("Ngũgĩ wa Thiong'o memorial fund", 12)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len([]rune(got)), 12)
}
