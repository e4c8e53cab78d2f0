package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the shared connection pool together with the dialect the
// DATABASE_URL selected. Repositories go through Rebind so the same
// queries run on every backend.
type DB struct {
	SQL     *sql.DB
	Dialect Dialect
}

func Open(ctx context.Context, databaseURL string, maxOpenConns int, maxIdleConns int) (*DB, error) {
	driver, dsn, dialect, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	pool, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialect == DialectSQLite {
		// The sqlite driver serializes writers; more than one open
		// connection just produces lock contention.
		maxOpenConns = 1
		maxIdleConns = 1
	}

	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(30 * time.Minute)
	pool.SetConnMaxIdleTime(5 * time.Minute)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected", "dialect", dialect, "max_open_conns", maxOpenConns)
	return &DB{SQL: pool, Dialect: dialect}, nil
}

func (db *DB) Close() {
	if db != nil && db.SQL != nil {
		_ = db.SQL.Close()
	}
}

func (db *DB) Health(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}

// Rebind adapts a $1-style query to the pool's placeholder dialect.
func (db *DB) Rebind(query string) string {
	return db.Dialect.Rebind(query)
}
