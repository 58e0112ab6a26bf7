// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and manages the schema.

# Engines

Two engines are supported, selected by DATABASE_TYPE:

  - sqlite (default): modernc.org/sqlite, pure Go, used for development and tests
  - postgres: github.com/lib/pq

Queries are written with ? placeholders and passed through Dialect.Rebind,
which produces $1, $2, ... for PostgreSQL:

	conn, err := db.Open(ctx, db.SQLite, "file:polly.db")
	q := db.Postgres.Rebind("SELECT id FROM polls WHERE user_id = ?")

# Tables

	users         local accounts (email, bcrypt hash)
	polls         poll metadata and settings, owned by a user id
	poll_options  ordered answers (sort_order), cascade-deleted with the poll
	votes         one row per ballot, cascade-deleted with the poll or option

Vote totals are never stored; they are aggregated per read.

# Usage

	if err := db.CreateSchema(ctx, conn); err != nil {
		// handle
	}

CreateSchema is idempotent (CREATE ... IF NOT EXISTS).
*/
package db
