// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// MinOptionInputs is the number of option inputs a fresh create form shows.
const MinOptionInputs = 2

// MaxOptionInputs caps how many option inputs "More options" can add.
const MaxOptionInputs = 20

// CreatePollForm is the state of the create form across submissions.
type CreatePollForm struct {
	Title              string
	Description        string
	Options            []string
	AllowMultipleVotes bool
	HideResults        bool
	Error              string
}

// CreatePoll renders the poll creation form. The "More options" button
// posts the form back with add_option set so the handler can re-render it
// with one more input.
func CreatePoll(form CreatePollForm) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		options := form.Options
		for len(options) < MinOptionInputs {
			options = append(options, "")
		}

		h.raw(`<a href="/polls">← Back to Polls</a><div class="card"><h1>Create a New Poll</h1>`)
		formError(h, form.Error)
		h.raw(`<form method="post" action="/polls">`)
		h.raw(`<label for="title">Poll Title</label>`)
		h.raw(`<input type="text" id="title" name="title" placeholder="Enter poll title" maxlength="200" value="`)
		h.text(form.Title)
		h.raw(`">`)
		h.raw(`<label for="description">Description (Optional)</label>`)
		h.raw(`<textarea id="description" name="description" placeholder="Enter poll description" maxlength="1000">`)
		h.text(form.Description)
		h.raw(`</textarea>`)

		h.raw(`<label>Poll Options</label>`)
		for i, opt := range options {
			n := strconv.Itoa(i + 1)
			h.raw(`<input type="text" name="options" aria-label="Option `)
			h.raw(n)
			h.raw(`" placeholder="Option `)
			h.raw(n)
			h.raw(`" maxlength="200" value="`)
			h.text(opt)
			h.raw(`">`)
		}
		if len(options) < MaxOptionInputs {
			h.raw(`<p><button class="btn btn-link" type="submit" name="add_option" value="1" formnovalidate>+ More options</button></p>`)
		}

		h.raw(`<label>Poll Settings</label>`)
		h.raw(`<div><input type="checkbox" id="multiple-votes" name="allowMultipleVotes" value="true"`)
		h.raw(checked(form.AllowMultipleVotes))
		h.raw(`> <label class="inline" for="multiple-votes">Allow multiple votes per user</label></div>`)
		h.raw(`<div><input type="checkbox" id="hide-results" name="hideResults" value="true"`)
		h.raw(checked(form.HideResults))
		h.raw(`> <label class="inline" for="hide-results">Hide results until voting ends</label></div>`)

		h.raw(`<p><button class="btn" type="submit">Create Poll</button></p></form></div>`)
	})
}

// Login renders the login form.
func Login(email, errMsg string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="card"><h1>Login</h1>`)
		formError(h, errMsg)
		h.raw(`<form method="post" action="/auth/login">`)
		emailInput(h, email)
		h.raw(`<label for="password">Password</label>`)
		h.raw(`<input type="password" id="password" name="password" placeholder="Enter your password" required>`)
		h.raw(`<p><button class="btn" type="submit">Login</button></p></form>`)
		h.raw(`<p class="muted">No account? <a href="/auth/register">Register</a></p></div>`)
	})
}

// Register renders the registration form.
func Register(email, errMsg string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="card"><h1>Register</h1>`)
		formError(h, errMsg)
		h.raw(`<form method="post" action="/auth/register">`)
		emailInput(h, email)
		h.raw(`<label for="password">Password</label>`)
		h.raw(`<input type="password" id="password" name="password" placeholder="Create a password" required>`)
		h.raw(`<label for="confirmPassword">Confirm Password</label>`)
		h.raw(`<input type="password" id="confirmPassword" name="confirmPassword" placeholder="Confirm your password" required>`)
		h.raw(`<p><button class="btn" type="submit">Register</button></p></form>`)
		h.raw(`<p class="muted">Already registered? <a href="/auth/login">Login</a></p></div>`)
	})
}

func emailInput(h *htmlWriter, email string) {
	h.raw(`<label for="email">Email</label>`)
	h.raw(`<input type="email" id="email" name="email" placeholder="Enter your email" required value="`)
	h.text(email)
	h.raw(`">`)
}

func formError(h *htmlWriter, msg string) {
	if msg == "" {
		return
	}
	h.raw(`<div class="flash flash-error" role="alert">`)
	h.text(msg)
	h.raw(`</div>`)
}

// Message renders a standalone notice, used for error pages.
func Message(title, msg string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<a href="/polls">← Back to Polls</a><div class="card"><h1>`)
		h.text(title)
		h.raw(`</h1><p class="muted">`)
		h.text(msg)
		h.raw(`</p></div>`)
	})
}
