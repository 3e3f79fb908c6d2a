package reports

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/alexbart/Church-management/internal/money"
)

const (
	sheetSummary        = "Summary"
	sheetRevenueByType  = "Revenue by Type"
	sheetExpenseByType  = "Expense by Type"
	sheetRevenueDetails = "Revenue Details"
	sheetExpenseDetails = "Expense Details"
)

// RenderExcel builds the report workbook. Detail rows keep the store's date
// ascending order; by-type rows are sorted by type name so the output is
// stable.
func RenderExcel(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, r); err != nil {
		return nil, err
	}
	if err := writeByTypeSheet(f, sheetRevenueByType, r.Summary.RevenueByType); err != nil {
		return nil, err
	}
	if err := writeByTypeSheet(f, sheetExpenseByType, r.Summary.ExpenseByType); err != nil {
		return nil, err
	}
	if err := writeDetailSheet(f, sheetRevenueDetails, r.Revenues, true); err != nil {
		return nil, err
	}
	if err := writeDetailSheet(f, sheetExpenseDetails, r.Expenses, false); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, r Report) error {
	index, err := f.NewSheet(sheetSummary)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	f.SetCellValue(sheetSummary, "A1", "Financial Report")
	f.SetCellValue(sheetSummary, "A2", "Period")
	f.SetCellValue(sheetSummary, "B2", periodLabel(r.Start, r.End))

	rows := []struct {
		label string
		cents int64
	}{
		{"Total Revenue", r.Summary.RevenueTotalCents},
		{"Total Expenses", r.Summary.ExpenseTotalCents},
		{"Net Total", r.Summary.NetTotalCents()},
	}
	for i, row := range rows {
		f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", i+4), row.label)
		f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", i+4), money.Format(row.cents))
	}
	return nil
}

func writeByTypeSheet(f *excelize.File, sheetName string, byType map[string]*TypeTotals) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headers := []string{"Type", "Total", "Count"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	names := make([]string, 0, len(byType))
	for name := range byType {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		row := i + 2
		tt := byType[name]
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), money.Format(tt.TotalCents))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tt.Count)
	}
	return nil
}

func writeDetailSheet(f *excelize.File, sheetName string, lines []Line, withMember bool) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headers := []string{"ID", "Date", "Type", "Amount", "Description"}
	if withMember {
		headers = append(headers, "Member")
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, l := range lines {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), l.SeqID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), l.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), l.TypeName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), money.Format(l.AmountCents))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), l.Description)
		if withMember {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), l.MemberName)
		}
	}
	return nil
}
