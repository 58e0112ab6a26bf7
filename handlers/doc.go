// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for Polly.

# Handler Types

Each handler is a struct holding the services it calls:

  - PollHandler: JSON poll API (create, list, read, delete, vote)
  - PageHandler: server-rendered HTML pages
  - AuthHandler: registration, login and logout for both surfaces

Handlers are created via constructor functions:

	repo := polls.NewRepository(conn, dialect, signal)
	pollHandler := handlers.NewPollHandler(repo)
	pageHandler := handlers.NewPageHandler(repo)
	authHandler := handlers.NewAuthHandler(accounts.NewService(conn, dialect), sessions, cfg.CookieSecure)

The caller identity comes from middleware.CurrentUser, so every handler
must run behind middleware.WithSession.

# JSON API

	POST   /api/polls            → CreatePoll   {success, pollId}
	GET    /api/polls            → GetPolls     {polls}
	GET    /api/polls/{id}       → GetPoll      {poll}
	DELETE /api/polls/{id}       → DeletePoll   {success}
	POST   /api/polls/{id}/votes → SubmitVote   {success}

Failures are {error} with the status of the error kind (see
models.ErrorKind.HTTPStatus).

# Pages

Mutating pages follow post/redirect/get: the handler sets a flash message
and redirects with 303, except when a create or auth form must be shown
again with the user's input and an error.

Tallies of polls created with hide_results are visible only to the owner,
on both surfaces.
*/
package handlers
