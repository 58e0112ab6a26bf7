// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Limiter decides whether a keyed request is within quota.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// WithRateLimit rejects requests over quota with 429. Requests are keyed
// by scope and client IP, resolved through trusted. A nil limiter disables
// limiting.
func WithRateLimit(limiter Limiter, trusted TrustedProxies, scope string, next http.HandlerFunc) http.HandlerFunc {
	if limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r, trusted)
		if limiter.Allow(r.Context(), scope+":"+ip) {
			next(w, r)
			return
		}

		slog.WarnContext(r.Context(), "rate limited", "scope", scope, "ip", ip)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			ErrorResponse(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
	}
}
