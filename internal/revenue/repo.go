package revenue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alexbart/Church-management/internal/database"
	"github.com/alexbart/Church-management/internal/money"
)

var ErrNotFound = errors.New("revenue not found")

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
	Page      int
	Limit     int
}

const revenueSelect = `
SELECT r.id::text, r.revenue_id, r.type_id::text, t.name,
       r.amount, r.description, r.date, r.member_id::text,
       CASE WHEN m.id IS NULL THEN NULL ELSE m.first_name || ' ' || m.last_name END,
       r.created_by::text, r.created_at, r.updated_at
FROM revenues r
JOIN transaction_types t ON t.id = r.type_id
LEFT JOIN users m ON m.id = r.member_id`

func (f ListFilter) where() (string, []any) {
	where := " WHERE 1=1"
	args := []any{}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where += " AND r.date >= $" + strconv.Itoa(len(args)) + "::date"
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where += " AND r.date <= $" + strconv.Itoa(len(args)) + "::date"
	}
	if f.TypeID != "" {
		args = append(args, f.TypeID)
		where += " AND r.type_id = $" + strconv.Itoa(len(args)) + "::uuid"
	}
	return where, args
}

// List returns a page of revenues plus the total count and the summed amount
// (in cents) across the whole filtered set, not just the page.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]Revenue, int64, int64, error) {
	where, args := f.where()

	var total, totalCents int64
	err := r.DB.QueryRow(ctx, `
SELECT COUNT(*), COALESCE(SUM(r.amount), 0)::bigint
FROM revenues r`+where, args...).Scan(&total, &totalCents)
	if err != nil {
		return nil, 0, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.DB.Query(ctx, revenueSelect+where+`
ORDER BY r.date DESC, r.created_at DESC
LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	out := make([]Revenue, 0, f.Limit)
	for rows.Next() {
		var rev Revenue
		if err := scanRevenue(rows, &rev); err != nil {
			return nil, 0, 0, err
		}
		out = append(out, rev)
	}
	return out, total, totalCents, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (Revenue, error) {
	var rev Revenue
	err := scanRevenue(r.DB.QueryRow(ctx, revenueSelect+` WHERE r.id = $1::uuid`, id), &rev)
	if errors.Is(err, pgx.ErrNoRows) {
		return Revenue{}, ErrNotFound
	}
	return rev, err
}

func (r *Repository) Create(ctx context.Context, seqID, typeID string, amountCents int64, description *string, date time.Time, memberID *string, createdBy string) (string, error) {
	var id string
	err := r.DB.QueryRow(ctx, `
INSERT INTO revenues (revenue_id, type_id, amount, description, date, member_id, created_by)
VALUES ($1, $2::uuid, $3, $4, $5::date, $6::uuid, $7::uuid)
RETURNING id::text`,
		seqID, typeID, amountCents, description, date, memberID, createdBy).Scan(&id)
	return id, err
}

func (r *Repository) Update(ctx context.Context, id, typeID string, amountCents int64, description *string, date time.Time, memberID *string) error {
	tag, err := r.DB.Exec(ctx, `
UPDATE revenues
SET type_id = $2::uuid, amount = $3, description = $4, date = $5::date, member_id = $6::uuid, updated_at = NOW()
WHERE id = $1::uuid`,
		id, typeID, amountCents, description, date, memberID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM revenues WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRevenue(row pgx.Row, rev *Revenue) error {
	var cents int64
	if err := row.Scan(&rev.ID, &rev.RevenueID, &rev.TypeID, &rev.TypeName,
		&cents, &rev.Description, &rev.Date, &rev.MemberID, &rev.MemberName,
		&rev.CreatedBy, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
		return err
	}
	rev.Amount = money.FromCents(cents)
	return nil
}
