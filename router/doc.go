// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for Polly.

# Route Registration

NewRouter wires storage, sessions and handlers and returns the complete
handler:

	handler, err := router.NewRouter(conn, cfg, rdb) // rdb may be nil

# Endpoints

Health:

	GET /health

JSON API (CORS enabled):

	POST   /api/auth/register  - Create account, start session
	POST   /api/auth/login     - Start session
	POST   /api/auth/logout    - Revoke session
	GET    /api/auth/me        - Current user
	POST   /api/polls          - Create poll
	GET    /api/polls          - List polls, newest first
	GET    /api/polls/{id}     - Poll with options and tallies
	DELETE /api/polls/{id}     - Delete own poll
	POST   /api/polls/{id}/votes - Vote

Pages:

	GET  /                   - Redirect to /polls
	GET  /polls              - Poll listing
	GET  /polls/create       - Create form (login required)
	POST /polls              - Create poll
	GET  /polls/{id}         - Poll detail and vote form
	POST /polls/{id}/vote    - Vote
	POST /polls/{id}/delete  - Delete own poll
	GET|POST /auth/login     - Login form
	GET|POST /auth/register  - Registration form
	POST /auth/logout        - Logout

# Redis

With a Redis client, session revocation is shared between instances,
revalidated paths are published on revalidate.DefaultChannel, and the
login, register and vote routes are rate limited per client IP.

# Middleware Order

Outermost first: WithRequestID, WithSecurityHeaders, WithSession, then
the mux. API routes are additionally wrapped in CORS.
*/
package router
