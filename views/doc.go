// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders the HTML pages of the polling site as templ
components.

Components are plain templ.ComponentFunc values, so handlers render them
the same way they would render generated templ code:

	page := views.Page{Title: "Polls", User: user, Flash: flash}
	err := views.Layout(page, views.PollsList(polls, user, time.Now())).Render(ctx, w)

All user-supplied text passes through templ.EscapeString. The pages carry
no script; forms post back to the server and the result is announced via
a flash message on the page the handler redirects to.
*/
package views
