package reports

import "github.com/alexbart/Church-management/internal/money"

type TypeTotals struct {
	TotalCents int64
	Count      int64
}

type Summary struct {
	RevenueTotalCents int64
	ExpenseTotalCents int64
	RevenueByType     map[string]*TypeTotals
	ExpenseByType     map[string]*TypeTotals
}

func (s Summary) NetTotalCents() int64 {
	return s.RevenueTotalCents - s.ExpenseTotalCents
}

// Summarize accumulates totals and per-type breakdowns in one pass over each
// side. All arithmetic is int64 cents.
func Summarize(revenues, expenses []Line) Summary {
	s := Summary{
		RevenueByType: make(map[string]*TypeTotals),
		ExpenseByType: make(map[string]*TypeTotals),
	}
	for _, l := range revenues {
		s.RevenueTotalCents += l.AmountCents
		tt := s.RevenueByType[l.TypeName]
		if tt == nil {
			tt = &TypeTotals{}
			s.RevenueByType[l.TypeName] = tt
		}
		tt.TotalCents += l.AmountCents
		tt.Count++
	}
	for _, l := range expenses {
		s.ExpenseTotalCents += l.AmountCents
		tt := s.ExpenseByType[l.TypeName]
		if tt == nil {
			tt = &TypeTotals{}
			s.ExpenseByType[l.TypeName] = tt
		}
		tt.TotalCents += l.AmountCents
		tt.Count++
	}
	return s
}

type typeTotalsJSON struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type summaryJSON struct {
	RevenueTotal  float64                   `json:"revenueTotal"`
	ExpenseTotal  float64                   `json:"expenseTotal"`
	NetTotal      float64                   `json:"netTotal"`
	RevenueByType map[string]typeTotalsJSON `json:"revenueByType"`
	ExpenseByType map[string]typeTotalsJSON `json:"expenseByType"`
}

func (s Summary) toJSON() summaryJSON {
	out := summaryJSON{
		RevenueTotal:  money.FromCents(s.RevenueTotalCents),
		ExpenseTotal:  money.FromCents(s.ExpenseTotalCents),
		NetTotal:      money.FromCents(s.NetTotalCents()),
		RevenueByType: make(map[string]typeTotalsJSON, len(s.RevenueByType)),
		ExpenseByType: make(map[string]typeTotalsJSON, len(s.ExpenseByType)),
	}
	for name, tt := range s.RevenueByType {
		out.RevenueByType[name] = typeTotalsJSON{Total: money.FromCents(tt.TotalCents), Count: tt.Count}
	}
	for name, tt := range s.ExpenseByType {
		out.ExpenseByType[name] = typeTotalsJSON{Total: money.FromCents(tt.TotalCents), Count: tt.Count}
	}
	return out
}
