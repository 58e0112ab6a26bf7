// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/polly/accounts"
	"github.com/danielhkuo/polly/auth"
	"github.com/danielhkuo/polly/cliparse"
	"github.com/danielhkuo/polly/db"
	"github.com/danielhkuo/polly/handlers"
	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/polls"
	"github.com/danielhkuo/polly/ratelimit"
	"github.com/danielhkuo/polly/revalidate"
)

// NewRouter builds the full HTTP handler. rdb is optional; without it
// sessions are revoked in memory, revalidation is only logged, and rate
// limiting is off.
func NewRouter(conn *sql.DB, cfg cliparse.Config, rdb redis.UniversalClient) (http.Handler, error) {
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	var revoker auth.TokenRevoker = auth.NewMemoryTokenRevoker()
	var signal revalidate.Signal = revalidate.LogSignal{}
	var limiter middleware.Limiter
	if rdb != nil {
		revoker = auth.NewRedisTokenRevoker(rdb)
		signal = revalidate.Multi{
			revalidate.LogSignal{},
			revalidate.NewRedisSignal(rdb, revalidate.DefaultChannel),
		}
		fw, err := ratelimit.NewFixedWindowLimiter(rdb, "", cfg.RateLimit, cfg.RateWindow)
		if err != nil {
			return nil, err
		}
		limiter = fw
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, revoker)
	repo := polls.NewRepository(conn, dialect, signal)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(repo)
	pageHandler := handlers.NewPageHandler(repo)
	authHandler := handlers.NewAuthHandler(accounts.NewService(conn, dialect), sessions, cfg.CookieSecure)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := conn.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// JSON API
	api := http.NewServeMux()
	api.HandleFunc("POST /api/polls", middleware.WithLogging(pollHandler.CreatePoll))
	api.HandleFunc("GET /api/polls", middleware.WithLogging(pollHandler.GetPolls))
	api.HandleFunc("GET /api/polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	api.HandleFunc("DELETE /api/polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))
	api.HandleFunc("POST /api/polls/{id}/votes", middleware.WithRateLimit(limiter, proxies, "vote", middleware.WithLogging(pollHandler.SubmitVote)))

	api.HandleFunc("POST /api/auth/register", middleware.WithRateLimit(limiter, proxies, "register", middleware.WithLogging(authHandler.Register)))
	api.HandleFunc("POST /api/auth/login", middleware.WithRateLimit(limiter, proxies, "login", middleware.WithLogging(authHandler.Login)))
	api.HandleFunc("POST /api/auth/logout", middleware.WithLogging(authHandler.Logout))
	api.HandleFunc("GET /api/auth/me", middleware.WithLogging(authHandler.Me))
	mux.Handle("/api/", middleware.CORS(nil, api))

	// Pages
	mux.HandleFunc("GET /{$}", middleware.WithLogging(pageHandler.Home))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pageHandler.ListPolls))
	mux.HandleFunc("GET /polls/create", middleware.WithLogging(pageHandler.NewPoll))
	mux.HandleFunc("POST /polls", middleware.WithLogging(pageHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pageHandler.ShowPoll))
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithRateLimit(limiter, proxies, "vote", middleware.WithLogging(pageHandler.Vote)))
	mux.HandleFunc("POST /polls/{id}/delete", middleware.WithLogging(pageHandler.DeletePoll))

	mux.HandleFunc("GET /auth/login", middleware.WithLogging(authHandler.LoginPage))
	mux.HandleFunc("POST /auth/login", middleware.WithRateLimit(limiter, proxies, "login", middleware.WithLogging(authHandler.LoginForm)))
	mux.HandleFunc("GET /auth/register", middleware.WithLogging(authHandler.RegisterPage))
	mux.HandleFunc("POST /auth/register", middleware.WithRateLimit(limiter, proxies, "register", middleware.WithLogging(authHandler.RegisterForm)))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(authHandler.LogoutForm))

	handler := middleware.WithSession(sessions, mux)
	handler = middleware.WithSecurityHeaders(handler)
	return middleware.WithRequestID(handler), nil
}
