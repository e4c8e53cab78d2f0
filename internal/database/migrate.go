package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
)

//go:embed migrations/postgres/001_initial.up.sql
var postgresSchemaSQL string

//go:embed migrations/mysql/001_initial.up.sql
var mysqlSchemaSQL string

//go:embed migrations/sqlite/001_initial.up.sql
var sqliteSchemaSQL string

// EnsureSchema applies the initial schema for the active dialect. Every
// statement uses IF NOT EXISTS, so re-running on an initialized database
// is a no-op. Anything beyond the initial schema is expected to come
// from an external migration tool.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.SQL == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	var schemaSQL string
	switch db.Dialect {
	case DialectPostgres:
		schemaSQL = postgresSchemaSQL
	case DialectMySQL:
		schemaSQL = mysqlSchemaSQL
	case DialectSQLite:
		schemaSQL = sqliteSchemaSQL
	default:
		return fmt.Errorf("no schema for dialect %q", db.Dialect)
	}

	// The MySQL driver rejects multi-statement strings by default, so
	// statements are executed one at a time on every backend.
	for _, stmt := range splitStatements(schemaSQL) {
		if _, err := db.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	slog.Info("database schema ensured", "dialect", db.Dialect)
	return nil
}

func splitStatements(script string) []string {
	parts := strings.Split(script, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
