// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a supported database engine.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect accepts the DATABASE_TYPE values understood by the server.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q (use sqlite or postgres)", s)
	}
}

// Rebind rewrites ? placeholders to the $N form PostgreSQL expects.
// Queries must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Open connects to the database and verifies the connection.
// SQLite connections enable foreign keys (required for ON DELETE CASCADE),
// store times in SQLite's text format, and are limited to a single
// connection so in-memory databases are shared.
func Open(ctx context.Context, dialect Dialect, url string) (*sql.DB, error) {
	if dialect == SQLite {
		url = withSQLitePragmas(url)
	}

	conn, err := sql.Open(string(dialect), url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if dialect == SQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}

func withSQLitePragmas(url string) string {
	params := []string{}
	if !strings.Contains(url, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(url, "_time_format") {
		params = append(params, "_time_format=sqlite")
	}
	if len(params) == 0 {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&")
}
