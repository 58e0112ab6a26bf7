// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s with HTML escaping. Safe for element content and quoted
// attribute values.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// checked returns the checked attribute when on is set.
func checked(on bool) string {
	if on {
		return " checked"
	}
	return ""
}
