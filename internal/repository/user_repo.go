package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-api-starter/internal/database"
	"go-api-starter/internal/model"
	"go-api-starter/pkg/apierror"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, password_hash, role, is_active, created_at, updated_at`

func (r *UserRepository) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = $1`), id)

	u, err := r.scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apierror.New("NOT_FOUND", "user not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.db.SQL.QueryRowContext(ctx,
		r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE email = $1`),
		normalizeEmail(email))

	u, err := r.scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.SQL.QueryRowContext(ctx,
		r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`),
		normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO users (id, email, full_name, password_hash, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`),
		u.ID, normalizeEmail(u.Email), u.FullName, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u model.User) error {
	res, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET email = $2, full_name = $3, password_hash = $4, updated_at = $5
		 WHERE id = $1`),
		u.ID, normalizeEmail(u.Email), u.FullName, u.PasswordHash, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRowAffected(res, "user not found", u.ID)
}

// Deactivate soft-disables the account. Rows are never physically
// deleted.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`),
		id, false, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return requireRowAffected(res, "user not found", id)
}

func (r *UserRepository) List(ctx context.Context, offset int, limit int) ([]model.Profile, error) {
	rows, err := r.db.SQL.QueryContext(ctx,
		r.db.Rebind(`SELECT id, email, full_name, role, is_active, created_at
		 FROM users ORDER BY email LIMIT $1 OFFSET $2`), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.Profile, 0)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, p)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireRowAffected(res sql.Result, message string, details string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return apierror.New("NOT_FOUND", message, details, http.StatusNotFound)
	}
	return nil
}
