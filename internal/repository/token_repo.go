package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-api-starter/internal/database"
	"go-api-starter/internal/model"
)

// RefreshTokenRepository persists refresh tokens so they can be revoked.
// Access tokens are never stored; they expire by time alone.
type RefreshTokenRepository struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, token string, userID string, expiresAt time.Time) error {
	_, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO refresh_tokens (token, user_id, created_at, expires_at)
		 VALUES ($1, $2, $3, $4)`),
		token, userID, time.Now().UTC(), expiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Validate returns the owning user ID for a live token.
func (r *RefreshTokenRepository) Validate(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.SQL.QueryRowContext(ctx,
		r.db.Rebind(`SELECT user_id FROM refresh_tokens WHERE token = $1 AND expires_at > $2`),
		token, time.Now().UTC()).Scan(&userID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("validate refresh token: %w", err)
	}
	return userID, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	_, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM refresh_tokens WHERE token = $1`), token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM refresh_tokens WHERE user_id = $1`), userID)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) CleanExpired(ctx context.Context) (int64, error) {
	res, err := r.db.SQL.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM refresh_tokens WHERE expires_at <= $1`), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("clean expired tokens: %w", err)
	}
	return res.RowsAffected()
}
