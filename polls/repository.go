// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/polly/db"
	"github.com/danielhkuo/polly/models"
	"github.com/danielhkuo/polly/revalidate"
)

// Repository is the data-access layer for polls, options and votes.
// Callers pass the acting user explicitly; nil means unauthenticated.
type Repository struct {
	conn     *sql.DB
	dialect  db.Dialect
	signal   revalidate.Signal
	validate *validator.Validate
	now      func() time.Time
}

func NewRepository(conn *sql.DB, dialect db.Dialect, signal revalidate.Signal) *Repository {
	if signal == nil {
		signal = revalidate.LogSignal{}
	}
	return &Repository{
		conn:     conn,
		dialect:  dialect,
		signal:   signal,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// CreatePoll stores a poll and its options in one transaction and returns
// the new poll id.
func (r *Repository) CreatePoll(ctx context.Context, caller *models.User, req models.CreatePollRequest) (string, error) {
	if caller == nil {
		return "", models.Unauthorized("You must be logged in to create a poll")
	}

	req, err := r.normalize(req)
	if err != nil {
		return "", err
	}

	pollID := uuid.NewString()

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction", "error", err)
		return "", models.StorageFailure("Failed to create poll", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.dialect.Rebind(`
		INSERT INTO polls (id, title, description, user_id, created_at, allow_multiple_votes, hide_results)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), pollID, req.Title, nullString(req.Description), caller.ID, r.now().UTC(), req.AllowMultipleVotes, req.HideResults)
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert poll", "error", err)
		return "", models.StorageFailure("Failed to create poll", err)
	}

	insertOption := r.dialect.Rebind(`
		INSERT INTO poll_options (id, poll_id, text, sort_order)
		VALUES (?, ?, ?, ?)
	`)
	for i, text := range req.Options {
		if _, err := tx.ExecContext(ctx, insertOption, uuid.NewString(), pollID, text, i); err != nil {
			slog.ErrorContext(ctx, "failed to insert poll option", "error", err, "poll_id", pollID)
			return "", models.StorageFailure("Failed to create poll options", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.ErrorContext(ctx, "failed to commit transaction", "error", err, "poll_id", pollID)
		return "", models.StorageFailure("Failed to create poll", err)
	}

	slog.InfoContext(ctx, "poll created", "poll_id", pollID, "user_id", caller.ID, "options", len(req.Options))
	r.signal.Revalidate(ctx, revalidate.PollsPath)

	return pollID, nil
}

// GetPolls lists every poll, newest first, with its total vote count.
func (r *Repository) GetPolls(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	var totals map[string]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		polls, err = r.listPolls(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = r.countVotes(gctx, `SELECT poll_id, COUNT(*) FROM votes GROUP BY poll_id`)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to fetch polls", "error", err)
		return nil, models.StorageFailure("Failed to fetch polls", err)
	}

	for i := range polls {
		polls[i].TotalVotes = totals[polls[i].ID]
	}
	return polls, nil
}

// GetPoll fetches one poll with its options in creation order, each
// annotated with its vote count.
func (r *Repository) GetPoll(ctx context.Context, id string) (*models.PollWithOptions, error) {
	poll, err := r.findPoll(ctx, id)
	if err != nil {
		return nil, err
	}

	var options []models.PollOption
	var counts map[string]int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		options, err = r.listOptions(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = r.countVotes(gctx, `
			SELECT poll_option_id, COUNT(*) FROM votes
			WHERE poll_id = ?
			GROUP BY poll_option_id
		`, id)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to fetch poll options", "error", err, "poll_id", id)
		return nil, models.StorageFailure("Poll not found", err)
	}

	total := 0
	for i := range options {
		options[i].Votes = counts[options[i].ID]
		total += options[i].Votes
	}
	poll.TotalVotes = total

	return &models.PollWithOptions{Poll: *poll, Options: options}, nil
}

// DeletePoll removes a poll owned by the caller. Options and votes go
// with it through ON DELETE CASCADE.
func (r *Repository) DeletePoll(ctx context.Context, caller *models.User, id string) error {
	if caller == nil {
		return models.Unauthorized("You must be logged in to delete a poll")
	}

	var ownerID string
	err := r.conn.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT user_id FROM polls WHERE id = ?
	`), id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFound("Poll not found")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query poll", "error", err, "poll_id", id)
		return models.StorageFailure("Poll not found", err)
	}

	if ownerID != caller.ID {
		return models.Forbidden("You can only delete your own polls")
	}

	res, err := r.conn.ExecContext(ctx, r.dialect.Rebind(`
		DELETE FROM polls WHERE id = ? AND user_id = ?
	`), id, caller.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete poll", "error", err, "poll_id", id)
		return models.StorageFailure("Failed to delete poll", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFound("Poll not found")
	}

	slog.InfoContext(ctx, "poll deleted", "poll_id", id, "user_id", caller.ID)
	r.signal.Revalidate(ctx, revalidate.PollsPath)
	r.signal.Revalidate(ctx, revalidate.PollPath(id))

	return nil
}

// SubmitVote records the caller's choice. Unless the poll allows multiple
// votes, a caller who already voted gets a Conflict.
//
// The duplicate check and the insert are separate statements: two
// concurrent submissions by the same user can both pass the check.
func (r *Repository) SubmitVote(ctx context.Context, caller *models.User, pollID, optionID string) error {
	if caller == nil {
		return models.Unauthorized("You must be logged in to vote")
	}

	var allowMultiple bool
	err := r.conn.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT allow_multiple_votes FROM polls WHERE id = ?
	`), pollID).Scan(&allowMultiple)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NotFound("Poll not found")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query poll", "error", err, "poll_id", pollID)
		return models.StorageFailure("Failed to submit vote", err)
	}

	var optionPollID string
	err = r.conn.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT poll_id FROM poll_options WHERE id = ?
	`), optionID).Scan(&optionPollID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && optionPollID != pollID) {
		return models.InvalidInput("Invalid poll option")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query poll option", "error", err, "option_id", optionID)
		return models.StorageFailure("Failed to submit vote", err)
	}

	if !allowMultiple {
		var existingID string
		err = r.conn.QueryRowContext(ctx, r.dialect.Rebind(`
			SELECT id FROM votes WHERE poll_id = ? AND user_id = ? LIMIT 1
		`), pollID, caller.ID).Scan(&existingID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// first vote
		case err != nil:
			slog.ErrorContext(ctx, "failed to check for existing vote", "error", err, "poll_id", pollID)
			return models.StorageFailure("Failed to check for existing vote", err)
		default:
			return models.Conflict("You have already voted on this poll")
		}
	}

	voteID := uuid.NewString()
	_, err = r.conn.ExecContext(ctx, r.dialect.Rebind(`
		INSERT INTO votes (id, poll_id, poll_option_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), voteID, pollID, optionID, caller.ID, r.now().UTC())
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert vote", "error", err, "poll_id", pollID)
		return models.StorageFailure("Failed to submit vote", err)
	}

	slog.InfoContext(ctx, "vote submitted", "poll_id", pollID, "vote_id", voteID, "user_id", caller.ID)
	r.signal.Revalidate(ctx, revalidate.PollPath(pollID))

	return nil
}

// HasVoted reports whether the user has at least one vote on the poll.
func (r *Repository) HasVoted(ctx context.Context, user *models.User, pollID string) (bool, error) {
	if user == nil {
		return false, nil
	}
	var exists bool
	err := r.conn.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT EXISTS(SELECT 1 FROM votes WHERE poll_id = ? AND user_id = ?)
	`), pollID, user.ID).Scan(&exists)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check for existing vote", "error", err, "poll_id", pollID)
		return false, models.StorageFailure("Failed to check for existing vote", err)
	}
	return exists, nil
}

func (r *Repository) findPoll(ctx context.Context, id string) (*models.Poll, error) {
	var p models.Poll
	var description sql.NullString
	err := r.conn.QueryRowContext(ctx, r.dialect.Rebind(`
		SELECT id, title, description, user_id, created_at, allow_multiple_votes, hide_results
		FROM polls WHERE id = ?
	`), id).Scan(&p.ID, &p.Title, &description, &p.UserID, &p.CreatedAt, &p.AllowMultipleVotes, &p.HideResults)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound("Poll not found")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query poll", "error", err, "poll_id", id)
		return nil, models.StorageFailure("Poll not found", err)
	}
	if description.Valid {
		p.Description = &description.String
	}
	return &p, nil
}

func (r *Repository) listPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := r.conn.QueryContext(ctx, `
		SELECT id, title, description, user_id, created_at, allow_multiple_votes, hide_results
		FROM polls
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var p models.Poll
		var description sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &description, &p.UserID, &p.CreatedAt, &p.AllowMultipleVotes, &p.HideResults); err != nil {
			return nil, err
		}
		if description.Valid {
			d := description.String
			p.Description = &d
		}
		polls = append(polls, p)
	}
	return polls, rows.Err()
}

func (r *Repository) listOptions(ctx context.Context, pollID string) ([]models.PollOption, error) {
	rows, err := r.conn.QueryContext(ctx, r.dialect.Rebind(`
		SELECT id, text FROM poll_options
		WHERE poll_id = ?
		ORDER BY sort_order, id
	`), pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var o models.PollOption
		if err := rows.Scan(&o.ID, &o.Text); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// countVotes runs an aggregate query returning (key, count) rows.
func (r *Repository) countVotes(ctx context.Context, query string, args ...any) (map[string]int, error) {
	rows, err := r.conn.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
