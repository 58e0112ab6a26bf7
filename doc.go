// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Polly server.

Polly is a small polling site: signed-in users create polls with two or
more options, anyone can browse them with live vote totals, signed-in
users vote once per poll (unless the poll allows repeat votes), and
owners can delete their polls.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:polly.db SESSION_SECRET=change-me-please-123 go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-secret "..."

Settings may also live in a .env file (-env) or a YAML file (-c).

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file/URI or PostgreSQL connection string
  - SESSION_SECRET (-session-secret): at least 16 bytes, signs sessions

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REDIS_ADDR (-redis): enables shared session revocation, rate
    limiting, and revalidation publishing
  - LOG_LEVEL (-log-level): debug, info, warn, error

# Architecture

  - polls: Poll repository (create, list, read, delete, vote)
  - accounts: Registration and login
  - auth: Password hashing, session tokens, revocation
  - views: HTML pages as templ components
  - handlers: HTTP handlers for the JSON API and the pages
  - router: Route definitions and middleware wiring
  - middleware: Logging, sessions, flash messages, CORS, rate limits
  - revalidate: Stale-page signals
  - ratelimit: Redis fixed-window limiter
  - models: Request/response and domain types, error kinds
  - db: Connections and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
