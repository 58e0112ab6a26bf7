// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain, and error types shared by
every layer of polly.

# Request Types

Types for parsing incoming JSON and forms:

  - CreatePollRequest: title, description, options, allowMultipleVotes, hideResults
  - SubmitVoteRequest: optionId
  - RegisterRequest: email, password, confirmPassword
  - LoginRequest: email, password

# Response Types

Mutating calls answer with the tagged Result shape:

	{"success": true}
	{"success": true, "pollId": "..."}
	{"error": "Poll not found"}

Reads answer with PollsResponse ({"polls": [...]}) or PollResponse
({"poll": {...}}).

# Domain Types

  - User: the identity passed explicitly into repository calls
  - Poll: poll metadata with the derived total_votes
  - PollOption: one answer with the derived votes count
  - PollWithOptions: a poll and its ordered options
  - Vote: one user's choice on one poll

# Errors

Every failure surfaced by the repositories is an *Error carrying an
ErrorKind (Unauthorized, InvalidInput, NotFound, Forbidden, Conflict,
StorageFailure) and a message safe to show to users:

	if models.KindOf(err) == models.KindForbidden { ... }
	middleware.JSONResponse(w, models.KindOf(err).HTTPStatus(), models.ResultOf(err))

Errors that are not an *Error are reported as "An unexpected error occurred".
*/
package models
