package types

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/alexbart/Church-management/internal/database"
)

var ErrNotFound = errors.New("transaction type not found")

type Repository struct {
	DB database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{DB: db}
}

type ListFilter struct {
	Category string
	IsActive *bool
	Page     int
	Limit    int
}

const typeColumns = `id::text, name, category, description, is_active, created_by::text, created_at, updated_at`

func (r *Repository) List(ctx context.Context, f ListFilter) ([]TransactionType, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where += " AND category = $" + strconv.Itoa(len(args))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where += " AND is_active = $" + strconv.Itoa(len(args))
	}

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM transaction_types`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.DB.Query(ctx, `
SELECT `+typeColumns+`
FROM transaction_types`+where+`
ORDER BY name ASC
LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]TransactionType, 0, f.Limit)
	for rows.Next() {
		var t TransactionType
		if err := scanType(rows, &t); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (TransactionType, error) {
	var t TransactionType
	err := scanType(r.DB.QueryRow(ctx, `
SELECT `+typeColumns+`
FROM transaction_types WHERE id = $1::uuid`, id), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return TransactionType{}, ErrNotFound
	}
	return t, err
}

// ValidateForCategory confirms the type exists, is active and belongs to the
// expected category. This is the gate every revenue/expense write goes
// through before touching storage.
func (r *Repository) ValidateForCategory(ctx context.Context, id, category string) (TransactionType, error) {
	var t TransactionType
	err := scanType(r.DB.QueryRow(ctx, `
SELECT `+typeColumns+`
FROM transaction_types
WHERE id = $1::uuid AND category = $2 AND is_active = TRUE`, id, category), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return TransactionType{}, ErrNotFound
	}
	return t, err
}

// FindActiveByName resolves a type by case-insensitive name within a
// category; the bulk import path matches spreadsheet cells this way.
func (r *Repository) FindActiveByName(ctx context.Context, name, category string) (TransactionType, error) {
	var t TransactionType
	err := scanType(r.DB.QueryRow(ctx, `
SELECT `+typeColumns+`
FROM transaction_types
WHERE LOWER(name) = LOWER($1) AND category = $2 AND is_active = TRUE`, name, category), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return TransactionType{}, ErrNotFound
	}
	return t, err
}

// NameExists reports whether another type with the same name (case
// insensitive) and category exists. excludeID may be empty.
func (r *Repository) NameExists(ctx context.Context, name, category, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		err = r.DB.QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM transaction_types
  WHERE LOWER(name) = LOWER($1) AND category = $2
)`, name, category).Scan(&exists)
	} else {
		err = r.DB.QueryRow(ctx, `
SELECT EXISTS (
  SELECT 1 FROM transaction_types
  WHERE LOWER(name) = LOWER($1) AND category = $2 AND id <> $3::uuid
)`, name, category, excludeID).Scan(&exists)
	}
	return exists, err
}

func (r *Repository) Create(ctx context.Context, name, category string, description *string, createdBy string) (TransactionType, error) {
	var t TransactionType
	err := scanType(r.DB.QueryRow(ctx, `
INSERT INTO transaction_types (name, category, description, created_by)
VALUES ($1, $2, $3, $4::uuid)
RETURNING `+typeColumns,
		name, category, description, createdBy), &t)
	return t, err
}

func (r *Repository) Update(ctx context.Context, t TransactionType) (TransactionType, error) {
	var out TransactionType
	err := scanType(r.DB.QueryRow(ctx, `
UPDATE transaction_types
SET name = $2, category = $3, description = $4, is_active = $5, updated_at = NOW()
WHERE id = $1::uuid
RETURNING `+typeColumns,
		t.ID, t.Name, t.Category, t.Description, t.IsActive), &out)
	if errors.Is(err, pgx.ErrNoRows) {
		return TransactionType{}, ErrNotFound
	}
	return out, err
}

// ReferenceCount counts revenues and expenses still pointing at the type.
// Deletion is blocked while it is non-zero.
func (r *Repository) ReferenceCount(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.DB.QueryRow(ctx, `
SELECT (SELECT COUNT(*) FROM revenues WHERE type_id = $1::uuid)
     + (SELECT COUNT(*) FROM expenses WHERE type_id = $1::uuid)`, id).Scan(&count)
	return count, err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM transaction_types WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanType(row pgx.Row, t *TransactionType) error {
	return row.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.IsActive,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
}
