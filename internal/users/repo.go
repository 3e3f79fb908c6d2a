package users

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/alexbart/Church-management/internal/database"
)

var ErrNotFound = errors.New("user not found")

type Repository struct {
	DB database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{DB: db}
}

type ListFilter struct {
	Role     string
	IsActive *bool
	Page     int
	Limit    int
}

const userColumns = `id::text, user_id, first_name, last_name, email, role, is_active, created_by::text, created_at, updated_at`

func (r *Repository) List(ctx context.Context, f ListFilter) ([]User, int64, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Role != "" {
		args = append(args, f.Role)
		where += " AND role = $" + strconv.Itoa(len(args))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where += " AND is_active = $" + strconv.Itoa(len(args))
	}

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := r.DB.Query(ctx, `
SELECT `+userColumns+`
FROM users`+where+`
ORDER BY created_at DESC
LIMIT $`+strconv.Itoa(len(args)-1)+` OFFSET $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]User, 0, f.Limit)
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (User, error) {
	var u User
	err := scanUser(r.DB.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users WHERE id = $1::uuid`, id), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// GetCredentials returns the active user matching the email along with the
// password hash, which never leaves this package boundary otherwise.
func (r *Repository) GetCredentials(ctx context.Context, email string) (User, string, error) {
	var u User
	var hash string
	err := r.DB.QueryRow(ctx, `
SELECT `+userColumns+`, password_hash
FROM users WHERE email = LOWER($1) AND is_active = TRUE`, email).Scan(
		&u.ID, &u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.Role,
		&u.IsActive, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	return u, hash, err
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := scanUser(r.DB.QueryRow(ctx, `
SELECT `+userColumns+`
FROM users WHERE email = LOWER($1) AND is_active = TRUE`, email), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *Repository) Create(ctx context.Context, seqID, firstName, lastName, email, passwordHash, role string, createdBy *string) (User, error) {
	var u User
	err := scanUser(r.DB.QueryRow(ctx, `
INSERT INTO users (user_id, first_name, last_name, email, password_hash, role, created_by)
VALUES ($1, $2, $3, LOWER($4), $5, $6, $7::uuid)
RETURNING `+userColumns,
		seqID, firstName, lastName, email, passwordHash, role, createdBy), &u)
	return u, err
}

func (r *Repository) Update(ctx context.Context, u User) (User, error) {
	var out User
	err := scanUser(r.DB.QueryRow(ctx, `
UPDATE users
SET first_name = $2, last_name = $3, role = $4, is_active = $5, updated_at = NOW()
WHERE id = $1::uuid
RETURNING `+userColumns,
		u.ID, u.FirstName, u.LastName, u.Role, u.IsActive), &out)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return out, err
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.UserID, &u.FirstName, &u.LastName, &u.Email,
		&u.Role, &u.IsActive, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt)
}
