package reports

import (
	"context"
	"strconv"
	"time"

	"github.com/alexbart/Church-management/internal/database"
	"github.com/alexbart/Church-management/internal/types"
)

// Filter narrows a report to a date range, one transaction type, or one
// category. A category filter skips the other side's query entirely.
type Filter struct {
	Start    *time.Time
	End      *time.Time
	TypeID   string
	Category string
}

// Line is one transaction resolved with its type name. Amounts stay in cents
// until a renderer shapes them.
type Line struct {
	SeqID       string
	TypeName    string
	AmountCents int64
	Description string
	MemberName  string
	Date        time.Time
}

// Report carries everything the JSON, Excel and PDF renderers need.
type Report struct {
	Revenues []Line
	Expenses []Line
	Summary  Summary
	Start    *time.Time
	End      *time.Time
}

type Store struct {
	DB database.Querier
}

func NewStore(db database.Querier) *Store {
	return &Store{DB: db}
}

// Fetch loads the filtered revenues and expenses sorted by date ascending
// and computes the summary in a single pass per side.
func (s *Store) Fetch(ctx context.Context, f Filter) (Report, error) {
	var revenues, expenses []Line
	var err error

	if f.Category != types.CategoryExpense {
		revenues, err = s.fetchLines(ctx, f, `
SELECT r.revenue_id, t.name, r.amount, COALESCE(r.description, ''),
       CASE WHEN m.id IS NULL THEN '' ELSE m.first_name || ' ' || m.last_name END,
       r.date
FROM revenues r
JOIN transaction_types t ON t.id = r.type_id
LEFT JOIN users m ON m.id = r.member_id`, "r")
		if err != nil {
			return Report{}, err
		}
	}

	if f.Category != types.CategoryRevenue {
		expenses, err = s.fetchLines(ctx, f, `
SELECT e.expense_id, t.name, e.amount, COALESCE(e.description, ''), '', e.date
FROM expenses e
JOIN transaction_types t ON t.id = e.type_id`, "e")
		if err != nil {
			return Report{}, err
		}
	}

	return Report{
		Revenues: revenues,
		Expenses: expenses,
		Summary:  Summarize(revenues, expenses),
		Start:    f.Start,
		End:      f.End,
	}, nil
}

func (s *Store) fetchLines(ctx context.Context, f Filter, baseQuery, alias string) ([]Line, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Start != nil {
		args = append(args, *f.Start)
		where += " AND " + alias + ".date >= $" + strconv.Itoa(len(args)) + "::date"
	}
	if f.End != nil {
		args = append(args, *f.End)
		where += " AND " + alias + ".date <= $" + strconv.Itoa(len(args)) + "::date"
	}
	if f.TypeID != "" {
		args = append(args, f.TypeID)
		where += " AND " + alias + ".type_id = $" + strconv.Itoa(len(args)) + "::uuid"
	}

	rows, err := s.DB.Query(ctx, baseQuery+where+`
ORDER BY `+alias+`.date ASC, `+alias+`.created_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.SeqID, &l.TypeName, &l.AmountCents, &l.Description, &l.MemberName, &l.Date); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ParseRange validates startDate/endDate query strings and normalizes them
// to start-of-day and end-of-day so the range is inclusive on both ends.
// Empty strings leave the corresponding bound open.
func ParseRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startStr != "" {
		d, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, nil, err
		}
		d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		start = &d
	}
	if endStr != "" {
		d, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, nil, err
		}
		d = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999000000, time.UTC)
		end = &d
	}
	return start, end, nil
}
