// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/models"
	"github.com/danielhkuo/polly/polls"
	"github.com/danielhkuo/polly/views"
)

// PollHandler serves the JSON poll API.
type PollHandler struct {
	polls *polls.Repository
}

func NewPollHandler(repo *polls.Repository) *PollHandler {
	return &PollHandler{polls: repo}
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	pollID, err := h.polls.CreatePoll(r.Context(), middleware.CurrentUser(r), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.Result{
		Success: true,
		PollID:  pollID,
	})
}

// GetPolls handles GET /api/polls
func (h *PollHandler) GetPolls(w http.ResponseWriter, r *http.Request) {
	list, err := h.polls.GetPolls(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Poll{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollsResponse{Polls: list})
}

// GetPoll handles GET /api/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.polls.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollResponse{
		Poll: redactResults(poll, middleware.CurrentUser(r)),
	})
}

// DeletePoll handles DELETE /api/polls/{id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.polls.DeletePoll(r.Context(), middleware.CurrentUser(r), r.PathValue("id")); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Result{Success: true})
}

// SubmitVote handles POST /api/polls/{id}/votes
func (h *PollHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	pollID := r.PathValue("id")
	if err := h.polls.SubmitVote(r.Context(), middleware.CurrentUser(r), pollID, req.OptionID); err != nil {
		if models.KindOf(err) == models.KindConflict {
			slog.InfoContext(r.Context(), "duplicate vote rejected", "poll_id", pollID)
		}
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Result{Success: true})
}

// redactResults zeroes the tallies of a poll with hidden results unless
// viewer owns it.
func redactResults(poll *models.PollWithOptions, viewer *models.User) *models.PollWithOptions {
	if views.ResultsVisible(poll.Poll, viewer) {
		return poll
	}
	redacted := *poll
	redacted.TotalVotes = 0
	redacted.Options = make([]models.PollOption, len(poll.Options))
	for i, o := range poll.Options {
		o.Votes = 0
		redacted.Options[i] = o
	}
	return &redacted
}
