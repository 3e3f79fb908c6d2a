package reports

import (
	"bytes"
	"sort"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexbart/Church-management/internal/money"
)

// RenderPDF builds the report document: title, period, summary table, per-type
// breakdowns, then the revenue and expense detail listings.
func RenderPDF(r Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Financial Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Period: "+periodLabel(r.Start, r.End))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{62, 62, 62}
	pdf.CellFormat(sumW[0], 10, "Total Revenue", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Total Expenses", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Net Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, money.Format(r.Summary.RevenueTotalCents), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, money.Format(r.Summary.ExpenseTotalCents), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, money.Format(r.Summary.NetTotalCents()), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	writePDFByType(pdf, "Revenue by Type", r.Summary.RevenueByType)
	writePDFByType(pdf, "Expenses by Type", r.Summary.ExpenseByType)
	writePDFDetails(pdf, "Revenue Details", r.Revenues, true)
	writePDFDetails(pdf, "Expense Details", r.Expenses, false)

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePDFByType(pdf *gofpdf.Fpdf, title string, byType map[string]*TypeTotals) {
	ensureRoom(pdf)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)

	colW := []float64{100, 56, 30}
	writePDFRow(pdf, colW, []string{"TYPE", "TOTAL", "COUNT"}, true)

	names := make([]string, 0, len(byType))
	for name := range byType {
		names = append(names, name)
	}
	sort.Strings(names)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
	for _, name := range names {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writePDFRow(pdf, colW, []string{"TYPE", "TOTAL", "COUNT"}, true)
			pdf.SetFont("Helvetica", "", 9)
		}
		tt := byType[name]
		pdf.CellFormat(colW[0], 8, trimTo(name, 50), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 8, money.Format(tt.TotalCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[2], 8, intToStr(tt.Count), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

func writePDFDetails(pdf *gofpdf.Fpdf, title string, lines []Line, withMember bool) {
	ensureRoom(pdf)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)

	colW := []float64{24, 24, 40, 28, 70}
	headers := []string{"ID", "DATE", "TYPE", "AMOUNT", "DESCRIPTION"}
	if withMember {
		colW = []float64{24, 24, 34, 26, 44, 34}
		headers = []string{"ID", "DATE", "TYPE", "AMOUNT", "DESCRIPTION", "MEMBER"}
	}
	writePDFRow(pdf, colW, headers, true)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
	for _, l := range lines {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writePDFRow(pdf, colW, headers, true)
			pdf.SetFont("Helvetica", "", 9)
		}
		cells := []string{
			l.SeqID,
			l.Date.Format("2006-01-02"),
			trimTo(l.TypeName, 18),
			money.Format(l.AmountCents),
			trimTo(l.Description, withMemberDescLimit(withMember)),
		}
		if withMember {
			cells = append(cells, trimTo(l.MemberName, 18))
		}
		for i, cell := range cells {
			align := "L"
			if headers[i] == "AMOUNT" {
				align = "R"
			}
			last := 0
			if i == len(cells)-1 {
				last = 1
			}
			pdf.CellFormat(colW[i], 8, cell, "1", last, align, false, 0, "")
		}
	}
	pdf.Ln(6)
}

func writePDFRow(pdf *gofpdf.Fpdf, colW []float64, headers []string, fill bool) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)
	for i, header := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		pdf.CellFormat(colW[i], 8, header, "1", last, "C", fill, 0, "")
	}
}

func ensureRoom(pdf *gofpdf.Fpdf) {
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}
}

func withMemberDescLimit(withMember bool) int {
	if withMember {
		return 26
	}
	return 40
}

func periodLabel(start, end *time.Time) string {
	from := "beginning"
	to := "present"
	if start != nil {
		from = start.Format("2006-01-02")
	}
	if end != nil {
		to = end.Format("2006-01-02")
	}
	return from + " to " + to
}

// trimTo shortens to max runes, not bytes, so multi-byte names never get
// split mid-rune.
func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func intToStr(n int64) string {
	if n == 0 {
		return "0"
	}
	var b [32]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}
