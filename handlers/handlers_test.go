// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/polly/accounts"
	"github.com/danielhkuo/polly/auth"
	"github.com/danielhkuo/polly/db"
	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/models"
	"github.com/danielhkuo/polly/polls"
	"github.com/danielhkuo/polly/testutil"
)

// testEnv wires the handlers the same way the router does, on an
// in-memory database.
type testEnv struct {
	t        *testing.T
	conn     *sql.DB
	signal   *testutil.RecordingSignal
	sessions *auth.Sessions
	handler  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	signal := &testutil.RecordingSignal{}
	repo := polls.NewRepository(conn, db.SQLite, signal)
	sessions := auth.NewSessions(testutil.TestSessionSecret, time.Hour, auth.NewMemoryTokenRevoker())

	pollHandler := NewPollHandler(repo)
	pageHandler := NewPageHandler(repo)
	authHandler := NewAuthHandler(accounts.NewService(conn, db.SQLite), sessions, false)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/polls", pollHandler.CreatePoll)
	mux.HandleFunc("GET /api/polls", pollHandler.GetPolls)
	mux.HandleFunc("GET /api/polls/{id}", pollHandler.GetPoll)
	mux.HandleFunc("DELETE /api/polls/{id}", pollHandler.DeletePoll)
	mux.HandleFunc("POST /api/polls/{id}/votes", pollHandler.SubmitVote)

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", authHandler.Me)
	mux.HandleFunc("GET /auth/login", authHandler.LoginPage)
	mux.HandleFunc("POST /auth/login", authHandler.LoginForm)
	mux.HandleFunc("GET /auth/register", authHandler.RegisterPage)
	mux.HandleFunc("POST /auth/register", authHandler.RegisterForm)
	mux.HandleFunc("POST /auth/logout", authHandler.LogoutForm)

	mux.HandleFunc("GET /{$}", pageHandler.Home)
	mux.HandleFunc("GET /polls", pageHandler.ListPolls)
	mux.HandleFunc("GET /polls/create", pageHandler.NewPoll)
	mux.HandleFunc("POST /polls", pageHandler.CreatePoll)
	mux.HandleFunc("GET /polls/{id}", pageHandler.ShowPoll)
	mux.HandleFunc("POST /polls/{id}/vote", pageHandler.Vote)
	mux.HandleFunc("POST /polls/{id}/delete", pageHandler.DeletePoll)

	return &testEnv{
		t:        t,
		conn:     conn,
		signal:   signal,
		sessions: sessions,
		handler:  middleware.WithSession(sessions, mux),
	}
}

// do serves req, authenticated as user when user is non-nil.
func (e *testEnv) do(req *http.Request, user *models.User) *httptest.ResponseRecorder {
	e.t.Helper()
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+testutil.SessionToken(e.t, user))
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// flashOf decodes the flash cookie set on w.
func flashOf(t *testing.T, w *httptest.ResponseRecorder) middleware.Flash {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return middleware.PopFlash(httptest.NewRecorder(), req)
}

func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther && w.Code != http.StatusFound {
		t.Fatalf("Expected redirect, got %d. Body: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %s, got %s", location, got)
	}
}
