package reports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alexbart/Church-management/internal/expense"
	"github.com/alexbart/Church-management/internal/money"
	"github.com/alexbart/Church-management/internal/revenue"
	"github.com/alexbart/Church-management/internal/sequence"
	"github.com/alexbart/Church-management/internal/types"
	"github.com/alexbart/Church-management/internal/users"
)

// ImportResult reports a partial-success bulk import. A failed row lands in
// Errors and never prevents the remaining rows from importing.
type ImportResult struct {
	ImportedCount int      `json:"importedCount"`
	Errors        []string `json:"errors"`
}

type Importer struct {
	Types     *types.Repository
	Users     *users.Repository
	Revenues  *revenue.Repository
	Expenses  *expense.Repository
	Allocator *sequence.Allocator
}

func NewImporter(typesRepo *types.Repository, usersRepo *users.Repository, revenues *revenue.Repository, expenses *expense.Repository, allocator *sequence.Allocator) *Importer {
	return &Importer{
		Types:     typesRepo,
		Users:     usersRepo,
		Revenues:  revenues,
		Expenses:  expenses,
		Allocator: allocator,
	}
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006-01-02 15:04:05", "01-02-06"}

var errEmptyWorkbook = errors.New("workbook has no data rows")

// ImportRevenues reads the first worksheet, skipping the header row. Expected
// columns: date, type name, amount, description, member email (optional).
func (im *Importer) ImportRevenues(ctx context.Context, src io.Reader, createdBy string) (ImportResult, error) {
	return im.importRows(ctx, src, func(ctx context.Context, rowNum int, cols []string) error {
		date, t, cents, description, err := im.parseCommon(ctx, cols, types.CategoryRevenue)
		if err != nil {
			return err
		}

		var memberID *string
		if email := cell(cols, 4); email != "" {
			member, err := im.Users.FindByEmail(ctx, email)
			if err != nil {
				if errors.Is(err, users.ErrNotFound) {
					return fmt.Errorf("no active member with email %q", email)
				}
				return err
			}
			memberID = &member.ID
		}

		seqID := im.Allocator.Next(ctx, sequence.PrefixRevenue)
		_, err = im.Revenues.Create(ctx, seqID, t.ID, cents, description, date, memberID, createdBy)
		return err
	})
}

// ImportExpenses reads the first worksheet, skipping the header row. Expected
// columns: date, type name, amount, description. Imported expenses start
// pending like any other.
func (im *Importer) ImportExpenses(ctx context.Context, src io.Reader, createdBy string) (ImportResult, error) {
	return im.importRows(ctx, src, func(ctx context.Context, rowNum int, cols []string) error {
		date, t, cents, description, err := im.parseCommon(ctx, cols, types.CategoryExpense)
		if err != nil {
			return err
		}

		seqID := im.Allocator.Next(ctx, sequence.PrefixExpense)
		_, err = im.Expenses.Create(ctx, seqID, t.ID, cents, description, date, createdBy)
		return err
	})
}

func (im *Importer) importRows(ctx context.Context, src io.Reader, importRow func(ctx context.Context, rowNum int, cols []string) error) (ImportResult, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, errEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("read worksheet: %w", err)
	}
	if len(rows) < 2 {
		return ImportResult{}, errEmptyWorkbook
	}

	result := ImportResult{Errors: []string{}}
	for i, cols := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(cols) {
			continue
		}
		if err := importRow(ctx, rowNum, cols); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowNum, err.Error()))
			continue
		}
		result.ImportedCount++
	}
	return result, nil
}

func (im *Importer) parseCommon(ctx context.Context, cols []string, category string) (time.Time, types.TransactionType, int64, *string, error) {
	date, err := parseRowDate(cell(cols, 0))
	if err != nil {
		return time.Time{}, types.TransactionType{}, 0, nil, err
	}

	typeName := cell(cols, 1)
	if typeName == "" {
		return time.Time{}, types.TransactionType{}, 0, nil, errors.New("missing transaction type")
	}
	t, err := im.Types.FindActiveByName(ctx, typeName, category)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return time.Time{}, types.TransactionType{}, 0, nil, fmt.Errorf("unknown %s type %q", category, typeName)
		}
		return time.Time{}, types.TransactionType{}, 0, nil, err
	}

	amountStr := cell(cols, 2)
	if amountStr == "" {
		return time.Time{}, types.TransactionType{}, 0, nil, errors.New("missing amount")
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(amountStr, ",", ""), 64)
	if err != nil {
		return time.Time{}, types.TransactionType{}, 0, nil, fmt.Errorf("invalid amount %q", amountStr)
	}
	cents, err := money.ToCents(amount)
	if err != nil {
		return time.Time{}, types.TransactionType{}, 0, nil, err
	}

	var description *string
	if d := cell(cols, 3); d != "" {
		description = &d
	}
	return date, t, cents, description, nil
}

func parseRowDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func cell(cols []string, i int) string {
	if i >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[i])
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
