// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/models"
	"github.com/danielhkuo/polly/polls"
	"github.com/danielhkuo/polly/revalidate"
	"github.com/danielhkuo/polly/views"
)

// PageHandler serves the server-rendered HTML pages.
type PageHandler struct {
	polls *polls.Repository
	now   func() time.Time
}

func NewPageHandler(repo *polls.Repository) *PageHandler {
	return &PageHandler{polls: repo, now: time.Now}
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, revalidate.PollsPath, http.StatusFound)
}

// ListPolls handles GET /polls
func (h *PageHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	list, err := h.polls.GetPolls(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, "Polls", views.PollsList(list, middleware.CurrentUser(r), h.now()))
}

// NewPoll handles GET /polls/create
func (h *PageHandler) NewPoll(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r) == nil {
		middleware.SetFlash(w, middleware.FlashError, "You must be logged in to create a poll")
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	renderPage(w, r, http.StatusOK, "Create Poll", views.CreatePoll(views.CreatePollForm{}))
}

// CreatePoll handles POST /polls
func (h *PageHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ParseForm(w, r); err != nil {
		renderPage(w, r, http.StatusBadRequest, "Create Poll", views.CreatePoll(views.CreatePollForm{Error: "Invalid form submission"}))
		return
	}
	form := views.CreatePollForm{
		Title:              r.PostForm.Get("title"),
		Description:        r.PostForm.Get("description"),
		Options:            r.PostForm["options"],
		AllowMultipleVotes: r.PostForm.Get("allowMultipleVotes") == "true",
		HideResults:        r.PostForm.Get("hideResults") == "true",
	}

	if r.PostForm.Get("add_option") != "" {
		if len(form.Options) < views.MaxOptionInputs {
			form.Options = append(form.Options, "")
		}
		renderPage(w, r, http.StatusOK, "Create Poll", views.CreatePoll(form))
		return
	}

	pollID, err := h.polls.CreatePoll(r.Context(), middleware.CurrentUser(r), models.CreatePollRequest{
		Title:              form.Title,
		Description:        form.Description,
		Options:            form.Options,
		AllowMultipleVotes: form.AllowMultipleVotes,
		HideResults:        form.HideResults,
	})
	if err != nil {
		if models.KindOf(err) == models.KindUnauthorized {
			middleware.SetFlash(w, middleware.FlashError, models.MessageOf(err))
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		form.Error = models.MessageOf(err)
		renderPage(w, r, models.KindOf(err).HTTPStatus(), "Create Poll", views.CreatePoll(form))
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Poll created successfully!")
	http.Redirect(w, r, revalidate.PollPath(pollID), http.StatusSeeOther)
}

// ShowPoll handles GET /polls/{id}
func (h *PageHandler) ShowPoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	poll, err := h.polls.GetPoll(ctx, r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	user := middleware.CurrentUser(r)
	hasVoted := false
	if user != nil {
		hasVoted, err = h.polls.HasVoted(ctx, user, poll.ID)
		if err != nil {
			// The vote form stays visible; a duplicate is still rejected on submit.
			slog.WarnContext(ctx, "failed to check vote status", "error", err, "poll_id", poll.ID)
		}
	}

	renderPage(w, r, http.StatusOK, poll.Title, views.PollDetail(poll, user, hasVoted))
}

// Vote handles POST /polls/{id}/vote
func (h *PageHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	back := revalidate.PollPath(pollID)

	if err := middleware.ParseForm(w, r); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Invalid form submission")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	optionID := strings.TrimSpace(r.PostForm.Get("optionId"))
	if optionID == "" {
		middleware.SetFlash(w, middleware.FlashError, "Please select an option to vote")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	err := h.polls.SubmitVote(r.Context(), middleware.CurrentUser(r), pollID, optionID)
	switch {
	case err == nil:
		middleware.SetFlash(w, middleware.FlashSuccess, "Vote submitted successfully!")
	case models.KindOf(err) == models.KindUnauthorized:
		middleware.SetFlash(w, middleware.FlashError, models.MessageOf(err))
		back = "/auth/login"
	default:
		middleware.SetFlash(w, middleware.FlashError, models.MessageOf(err))
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// DeletePoll handles POST /polls/{id}/delete
func (h *PageHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	if err := h.polls.DeletePoll(r.Context(), middleware.CurrentUser(r), r.PathValue("id")); err != nil {
		middleware.SetFlash(w, middleware.FlashError, models.MessageOf(err))
	} else {
		middleware.SetFlash(w, middleware.FlashSuccess, "Poll deleted successfully")
	}
	http.Redirect(w, r, revalidate.PollsPath, http.StatusSeeOther)
}

// renderPage renders body inside the layout. Output is buffered so a
// render failure can still produce a clean 500.
func renderPage(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	page := views.Page{
		Title: title,
		User:  middleware.CurrentUser(r),
		Flash: middleware.PopFlash(w, r),
	}

	var buf bytes.Buffer
	if err := views.Layout(page, body).Render(r.Context(), &buf); err != nil {
		slog.ErrorContext(r.Context(), "failed to render page", "error", err, "path", r.URL.Path)
		http.Error(w, models.UnexpectedMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	kind := models.KindOf(err)
	title := "Something went wrong"
	if kind == models.KindNotFound {
		title = "Not Found"
	}
	renderPage(w, r, kind.HTTPStatus(), title, views.Message(title, models.MessageOf(err)))
}
