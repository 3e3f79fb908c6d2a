package expense

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alexbart/Church-management/internal/database"
	"github.com/alexbart/Church-management/internal/money"
)

var (
	ErrNotFound   = errors.New("expense not found")
	ErrNotPending = errors.New("expense is not pending")
)

type Repository struct {
	DB database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{DB: db}
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	TypeID    string
	Status    string
	Page      int
	Limit     int
}

const expenseSelect = `
SELECT e.id::text, e.expense_id, e.type_id::text, t.name,
       e.amount, e.description, e.date, e.status, e.approved_by::text,
       e.created_by::text, e.created_at, e.updated_at
FROM expenses e
JOIN transaction_types t ON t.id = e.type_id`

func (f ListFilter) where() (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where += " AND e.date >= $" + strconv.Itoa(len(args)) + "::date"
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where += " AND e.date <= $" + strconv.Itoa(len(args)) + "::date"
	}
	if f.TypeID != "" {
		args = append(args, f.TypeID)
		where += " AND e.type_id = $" + strconv.Itoa(len(args)) + "::uuid"
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += " AND e.status = $" + strconv.Itoa(len(args))
	}
	return where, args
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Expense, int64, int64, error) {
	where, args := f.where()

	var total, totalCents int64
	err := r.DB.QueryRow(ctx, `
SELECT COUNT(*), COALESCE(SUM(e.amount), 0)::bigint
FROM expenses e`+where, args...).Scan(&total, &totalCents)
	if err != nil {
		return nil, 0, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.DB.Query(ctx, expenseSelect+where+`
ORDER BY e.date DESC, e.created_at DESC
LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	out := make([]Expense, 0, f.Limit)
	for rows.Next() {
		var e Expense
		if err := scanExpense(rows, &e); err != nil {
			return nil, 0, 0, err
		}
		out = append(out, e)
	}
	return out, total, totalCents, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (Expense, error) {
	var e Expense
	err := scanExpense(r.DB.QueryRow(ctx, expenseSelect+` WHERE e.id = $1::uuid`, id), &e)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	return e, err
}

func (r *Repository) Create(ctx context.Context, seqID, typeID string, amountCents int64, description *string, date time.Time, createdBy string) (string, error) {
	var id string
	err := r.DB.QueryRow(ctx, `
INSERT INTO expenses (expense_id, type_id, amount, description, date, created_by)
VALUES ($1, $2::uuid, $3, $4, $5::date, $6::uuid)
RETURNING id::text`,
		seqID, typeID, amountCents, description, date, createdBy).Scan(&id)
	return id, err
}

func (r *Repository) Update(ctx context.Context, id, typeID string, amountCents int64, description *string, date time.Time) error {
	tag, err := r.DB.Exec(ctx, `
UPDATE expenses
SET type_id = $2::uuid, amount = $3, description = $4, date = $5::date, updated_at = NOW()
WHERE id = $1::uuid`,
		id, typeID, amountCents, description, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves a pending expense to approved or rejected and records the
// approver. Only pending expenses transition.
func (r *Repository) SetStatus(ctx context.Context, id, status, approverID string) error {
	tag, err := r.DB.Exec(ctx, `
UPDATE expenses
SET status = $2, approved_by = $3::uuid, updated_at = NOW()
WHERE id = $1::uuid AND status = 'pending'`,
		id, status, approverID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already decided; let the caller distinguish.
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
		return ErrNotPending
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM expenses WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row, e *Expense) error {
	var cents int64
	if err := row.Scan(&e.ID, &e.ExpenseID, &e.TypeID, &e.TypeName,
		&cents, &e.Description, &e.Date, &e.Status, &e.ApprovedBy,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}
	e.Amount = money.FromCents(cents)
	return nil
}
