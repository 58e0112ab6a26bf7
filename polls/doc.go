// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls is the poll repository: the only code that reads or writes
polls, options and votes.

# Operations

	repo := polls.NewRepository(conn, db.SQLite, revalidate.LogSignal{})

	id, err := repo.CreatePoll(ctx, caller, req)       // poll + options in one transaction
	list, err := repo.GetPolls(ctx)                    // newest first, with total_votes
	poll, err := repo.GetPoll(ctx, id)                 // options in order, with votes
	err = repo.DeletePoll(ctx, caller, id)             // owner only, cascades
	err = repo.SubmitVote(ctx, caller, pollID, optID)  // one vote per user unless allowed

The caller is passed explicitly; nil means unauthenticated and is rejected
before any query runs.

# Errors

Every error is a *models.Error. Storage failures are logged here and
replaced with a fixed message ("Failed to fetch polls", "Failed to submit
vote", ...), so driver errors never reach users.

# Vote totals

Totals are aggregated with one GROUP BY query per read. GetPolls and
GetPoll run the row query and the aggregate concurrently; both must
succeed.

# Revalidation

After a successful mutation the repository emits revalidate.PollsPath
(create, delete) or revalidate.PollPath(id) (vote, delete).

# Duplicate votes

SubmitVote checks for an existing vote and then inserts. The two steps are
not atomic, so simultaneous submissions by one user can record two votes.
Polls created with allowMultipleVotes skip the check.
*/
package polls
