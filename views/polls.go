// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/danielhkuo/polly/models"
	"github.com/dustin/go-humanize"
)

// PollsList renders the poll listing. Delete controls are shown only on
// polls owned by user. now anchors the relative creation times.
func PollsList(polls []models.Poll, user *models.User, now time.Time) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="header"><div><h1>Polls</h1>`)
		if user != nil {
			h.raw(`<p class="muted">Welcome, `)
			h.text(user.Email)
			h.raw(`</p>`)
		}
		h.raw(`</div><div>`)
		if user != nil {
			h.raw(`<form class="inline" method="post" action="/auth/logout"><button class="btn btn-danger" type="submit">Logout</button></form> `)
		} else {
			h.raw(`<a class="btn" href="/auth/login">Login</a> <a class="btn" href="/auth/register">Register</a> `)
		}
		h.raw(`<a class="btn" href="/polls/create">Create Poll</a></div></div>`)

		if len(polls) == 0 {
			h.raw(`<div class="card"><p class="muted">No polls found. Create your first poll!</p>`)
			h.raw(`<a class="btn" href="/polls/create">Create Poll</a></div>`)
			return
		}

		h.raw(`<div class="grid">`)
		for _, p := range polls {
			h.raw(`<div class="card"><a href="/polls/`)
			h.text(p.ID)
			h.raw(`"><h2>`)
			h.text(p.Title)
			h.raw(`</h2></a>`)
			if p.Description != nil && *p.Description != "" {
				h.raw(`<p class="muted">`)
				h.text(*p.Description)
				h.raw(`</p>`)
			}
			h.raw(`<div class="meta"><span>`)
			h.text(voteCount(p.TotalVotes))
			h.raw(`</span><span>Created `)
			h.text(humanize.RelTime(p.CreatedAt, now, "ago", "from now"))
			h.raw(`</span></div>`)
			if p.IsOwner(user) {
				h.raw(`<form method="post" action="/polls/`)
				h.text(p.ID)
				h.raw(`/delete"><button class="btn btn-link" type="submit">Delete</button></form>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}

// PollDetail renders a single poll with its tallies and the vote form.
// Tallies of a poll with hidden results are shown only to its owner.
func PollDetail(poll *models.PollWithOptions, user *models.User, hasVoted bool) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<a href="/polls">← Back to Polls</a>`)
		h.raw(`<div class="card"><h1>`)
		h.text(poll.Title)
		h.raw(`</h1>`)
		if poll.Description != nil && *poll.Description != "" {
			h.raw(`<p class="muted">`)
			h.text(*poll.Description)
			h.raw(`</p>`)
		}
		h.raw(`<p class="meta">Created on `)
		h.text(poll.CreatedAt.Format("January 2, 2006"))
		h.raw(`</p>`)

		if ResultsVisible(poll.Poll, user) {
			for _, o := range poll.Options {
				pct := strconv.Itoa(Percentage(o.Votes, poll.TotalVotes))
				h.raw(`<div class="card"><div class="meta"><strong>`)
				h.text(o.Text)
				h.raw(`</strong><span>`)
				h.text(voteCount(o.Votes) + " (" + pct + "%)")
				h.raw(`</span></div><div class="bar"><div style="width:`)
				h.raw(pct)
				h.raw(`%"></div></div></div>`)
			}
		} else {
			h.raw(`<p class="muted">Results are hidden by the poll owner.</p>`)
		}
		h.raw(`</div>`)

		h.raw(`<div class="card"><h2>Cast Your Vote</h2>`)
		switch {
		case user == nil:
			h.raw(`<p><a href="/auth/login">Log in</a> to vote on this poll.</p>`)
		case hasVoted && !poll.AllowMultipleVotes:
			h.raw(`<p class="muted">You have already voted on this poll.</p>`)
		default:
			h.raw(`<form method="post" action="/polls/`)
			h.text(poll.ID)
			h.raw(`/vote">`)
			for _, o := range poll.Options {
				h.raw(`<div><input type="radio" name="optionId" id="option-`)
				h.text(o.ID)
				h.raw(`" value="`)
				h.text(o.ID)
				h.raw(`"> <label class="inline" for="option-`)
				h.text(o.ID)
				h.raw(`">`)
				h.text(o.Text)
				h.raw(`</label></div>`)
			}
			h.raw(`<p><button class="btn" type="submit">Submit Vote</button></p></form>`)
		}
		h.raw(`</div>`)
	})
}

// ResultsVisible reports whether user may see the tallies of p.
func ResultsVisible(p models.Poll, user *models.User) bool {
	return !p.HideResults || p.IsOwner(user)
}

// Percentage returns votes as a whole percentage of total, or 0 when
// nothing has been cast.
func Percentage(votes, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

func voteCount(n int) string {
	return humanize.Comma(int64(n)) + " votes"
}
