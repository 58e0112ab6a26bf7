// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"

	"github.com/a-h/templ"
	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/models"
)

// Page holds the per-request data every page shares.
type Page struct {
	Title string
	User  *models.User
	Flash middleware.Flash
}

const styles = `
body{font-family:system-ui,sans-serif;background:#f3f4f6;color:#111827;margin:0}
.container{max-width:960px;margin:0 auto;padding:2.5rem 1rem}
.card{background:#fff;border-radius:.5rem;box-shadow:0 1px 3px rgba(0,0,0,.1);padding:1.5rem;margin-bottom:1.5rem}
.grid{display:grid;gap:1.5rem;grid-template-columns:repeat(auto-fill,minmax(260px,1fr))}
.header{display:flex;justify-content:space-between;align-items:center;margin-bottom:2rem}
.muted{color:#6b7280}
.meta{display:flex;justify-content:space-between;font-size:.875rem;color:#6b7280}
.btn{display:inline-block;background:#2563eb;color:#fff;border:0;border-radius:.375rem;padding:.5rem 1rem;text-decoration:none;cursor:pointer;font-size:1rem}
.btn-danger{background:#dc2626}
.btn-link{background:none;color:#2563eb;padding:0}
.bar{background:#e5e7eb;border-radius:9999px;height:.625rem}
.bar>div{background:#2563eb;border-radius:9999px;height:.625rem}
.flash{padding:.75rem 1rem;border-radius:.375rem;margin-bottom:1.5rem}
.flash-success{background:#dcfce7;color:#166534}
.flash-error{background:#fee2e2;color:#991b1b}
label{display:block;font-size:.875rem;font-weight:500;margin-bottom:.25rem}
input[type=text],input[type=email],input[type=password],textarea{width:100%;box-sizing:border-box;padding:.5rem;border:1px solid #d1d5db;border-radius:.375rem;margin-bottom:1rem}
.inline{display:inline}
`

// Layout wraps body in the site chrome and shows the pending flash message.
func Layout(page Page, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		title := "Polly"
		if page.Title != "" {
			title = page.Title + " | Polly"
		}

		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body><main class="container">`)
		if page.Flash.Message != "" {
			h.raw(`<div class="flash flash-`)
			h.text(page.Flash.Kind)
			h.raw(`" role="status">`)
			h.text(page.Flash.Message)
			h.raw(`</div>`)
		}
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}
