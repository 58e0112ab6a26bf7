// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/polly/auth"
	"github.com/danielhkuo/polly/models"
)

// SessionCookie holds the session token for browser clients.
const SessionCookie = "polly_session"

const userCtxKey = contextKey("user")

// WithSession resolves the caller's identity from the session token and
// stores it in the request context. Resolution fails closed: any error
// leaves the request unauthenticated.
func WithSession(sessions *auth.Sessions, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		session, err := sessions.Verify(ctx, token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrRevokedToken) {
				slog.DebugContext(ctx, "session rejected", "error", err)
			} else {
				slog.WarnContext(ctx, "session lookup failed", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		user := &models.User{ID: session.UserID, Email: session.Email}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(ctx, user)))
	})
}

// SessionToken returns the bearer token or, failing that, the session cookie.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// ContextWithUser returns a context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// CurrentUser returns the authenticated caller, or nil.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userCtxKey).(*models.User)
	return user
}

// SetSessionCookie stores the session token in an HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
