package database

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// ParseURL maps a DATABASE_URL onto a registered driver and its native
// DSN. Supported schemes: postgres:// (and postgresql://), mysql://,
// sqlite:// or a bare file path.
func ParseURL(raw string) (driver string, dsn string, dialect Dialect, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", "", fmt.Errorf("database URL is empty")
	}

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		// pgx accepts the URL form directly.
		return "pgx", raw, DialectPostgres, nil

	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSN(raw)
		if err != nil {
			return "", "", "", err
		}
		return "mysql", dsn, DialectMySQL, nil

	case strings.HasPrefix(raw, "sqlite://"), strings.HasPrefix(raw, "sqlite3://"):
		rest := strings.TrimPrefix(strings.TrimPrefix(raw, "sqlite3://"), "sqlite://")
		// Tolerate the three-slash form (sqlite:///./app.db).
		if strings.HasPrefix(rest, "/.") {
			rest = rest[1:]
		}
		if rest == "" {
			return "", "", "", fmt.Errorf("sqlite URL has no path: %s", raw)
		}
		return "sqlite3", sqliteDSN(rest), DialectSQLite, nil

	case !strings.Contains(raw, "://"):
		// A bare path is treated as an SQLite database file.
		return "sqlite3", sqliteDSN(raw), DialectSQLite, nil

	default:
		return "", "", "", fmt.Errorf("unsupported database URL scheme: %s", raw)
	}
}

// mysqlDSN converts a mysql:// URL into the driver's native
// user:pass@tcp(host:port)/db form. parseTime is forced on so DATETIME
// columns scan into time.Time.
func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql URL: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.ParseTime = true

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[key] = values[0]
	}

	return cfg.FormatDSN(), nil
}

func sqliteDSN(path string) string {
	if path == ":memory:" {
		// Shared cache keeps the schema visible across pooled connections.
		return "file::memory:?cache=shared"
	}
	return path
}

// Rebind rewrites $1-style placeholders into the ? form used by the
// MySQL and SQLite drivers. Postgres queries pass through untouched.
// Queries in this codebase always number placeholders in order of
// appearance, so a positional swap is sufficient.
func (d Dialect) Rebind(query string) string {
	if d == DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
