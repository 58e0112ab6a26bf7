// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: HS256 signing secret, at least 16 bytes (required)
  - SessionTTL: session lifetime (default: 24h)
  - RedisAddr, RedisPassword: optional Redis for revocation, rate limits and revalidation
  - LogLevel: debug, info, warn or error (default: info)
  - CookieSecure: mark session cookies Secure
  - RateLimit, RateWindow: requests per window for login, register and vote (default: 20/1m)

# Sources

Values are resolved in this order, highest first:

	flags         -p -d -t -redis -log-level -session-secret
	environment   PORT DATABASE_URL DATABASE_TYPE SESSION_SECRET SESSION_TTL
	              REDIS_ADDR REDIS_PASSWORD LOG_LEVEL COOKIE_SECURE
	              RATE_LIMIT RATE_WINDOW
	YAML file     -c path or CONFIG_FILE (keys in snake_case)
	defaults      Default()

A .env file (path set with -env, default ".env") is loaded into the
environment first; it never overrides variables that are already set.

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	dialect, _ := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL)
	// ...
	handler := router.NewRouter(conn, cfg)
*/
package cliparse
