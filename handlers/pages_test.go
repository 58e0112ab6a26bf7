// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/models"
	"github.com/danielhkuo/polly/testutil"
)

func TestHomeRedirects(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(testutil.MakeRequest("GET", "/", nil, nil), nil)
	assertRedirect(t, w, "/polls")
}

func TestListPollsPage(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateTestUser(t, env.conn, "owner@example.com")

	w := env.do(testutil.MakeRequest("GET", "/polls", nil, nil), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w, "No polls found. Create your first poll!", `href="/auth/login"`)
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Expected Cache-Control no-store, got %q", cc)
	}

	pollID, opts := testutil.CreateTestPoll(t, env.conn, owner.ID, "Favorite Language", time.Now().Add(-time.Hour), "Go", "Rust")
	testutil.AddTestVote(t, env.conn, pollID, opts[0], "v1")

	w = env.do(testutil.MakeRequest("GET", "/polls", nil, nil), owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w,
		"Welcome, owner@example.com",
		"Favorite Language",
		"1 votes",
		"Created 1 hour ago",
		`action="/polls/`+pollID+`/delete"`,
	)
}

func TestNewPollPage(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.conn, "alice@example.com")

	w := env.do(testutil.MakeRequest("GET", "/polls/create", nil, nil), nil)
	assertRedirect(t, w, "/auth/login")

	w = env.do(testutil.MakeRequest("GET", "/polls/create", nil, nil), user)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w, "Create a New Poll", `name="options"`)
}

func TestCreatePollForm(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.conn, "alice@example.com")

	t.Run("more options re-renders with an extra input", func(t *testing.T) {
		form := url.Values{"title": {"Lunch"}, "options": {"Pizza", "Sushi"}, "add_option": {"1"}}
		w := env.do(testutil.MakeFormRequest("/polls", form), user)
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertContains(t, w, `value="Lunch"`, `value="Pizza"`, `placeholder="Option 3"`)
		if n := testutil.CountRows(t, env.conn, "polls", ""); n != 0 {
			t.Errorf("Expected no poll to be created, got %d", n)
		}
	})

	t.Run("validation error re-renders", func(t *testing.T) {
		form := url.Values{"title": {"Lunch"}, "options": {"Pizza", ""}}
		w := env.do(testutil.MakeFormRequest("/polls", form), user)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
		testutil.AssertContains(t, w, "Title and at least 2 options are required", `value="Lunch"`)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		form := url.Values{"title": {"Lunch"}, "options": {"Pizza", "Sushi"}}
		w := env.do(testutil.MakeFormRequest("/polls", form), nil)
		assertRedirect(t, w, "/auth/login")
		if f := flashOf(t, w); f.Message != "You must be logged in to create a poll" {
			t.Errorf("Unexpected flash: %+v", f)
		}
	})

	t.Run("success", func(t *testing.T) {
		form := url.Values{
			"title":       {"Lunch"},
			"options":     {"Pizza", "Sushi", ""},
			"hideResults": {"true"},
		}
		w := env.do(testutil.MakeFormRequest("/polls", form), user)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("Expected 303, got %d: %s", w.Code, w.Body.String())
		}
		if f := flashOf(t, w); f.Kind != middleware.FlashSuccess || f.Message != "Poll created successfully!" {
			t.Errorf("Unexpected flash: %+v", f)
		}

		var pollID string
		var hidden, multiple bool
		err := env.conn.QueryRow(`SELECT id, hide_results, allow_multiple_votes FROM polls WHERE title = 'Lunch'`).Scan(&pollID, &hidden, &multiple)
		if err != nil {
			t.Fatal(err)
		}
		if !hidden || multiple {
			t.Errorf("Expected hide_results only, got hide=%v multiple=%v", hidden, multiple)
		}
		if loc := w.Header().Get("Location"); loc != "/polls/"+pollID {
			t.Errorf("Expected redirect to the new poll, got %s", loc)
		}
	})
}

func TestShowPollPage(t *testing.T) {
	env := newTestEnv(t)
	voter := testutil.CreateTestUser(t, env.conn, "voter@example.com")
	pollID, opts := testutil.CreateTestPoll(t, env.conn, "owner", "Favorite Language", time.Now(), "Go", "Rust", "Zig")
	testutil.AddTestVote(t, env.conn, pollID, opts[0], "a")
	testutil.AddTestVote(t, env.conn, pollID, opts[0], "b")
	testutil.AddTestVote(t, env.conn, pollID, opts[1], "c")

	t.Run("anonymous", func(t *testing.T) {
		w := env.do(testutil.MakeRequest("GET", "/polls/"+pollID, nil, nil), nil)
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertContains(t, w, "← Back to Polls", "2 votes (67%)", "1 votes (33%)", "0 votes (0%)", "to vote on this poll")
	})

	t.Run("voter sees the form", func(t *testing.T) {
		w := env.do(testutil.MakeRequest("GET", "/polls/"+pollID, nil, nil), voter)
		testutil.AssertContains(t, w, `action="/polls/`+pollID+`/vote"`)
	})

	t.Run("not found", func(t *testing.T) {
		w := env.do(testutil.MakeRequest("GET", "/polls/missing", nil, nil), nil)
		testutil.AssertStatus(t, w, http.StatusNotFound)
		testutil.AssertContains(t, w, "Poll not found")
	})
}

func TestVoteForm(t *testing.T) {
	env := newTestEnv(t)
	voter := testutil.CreateTestUser(t, env.conn, "voter@example.com")
	pollID, opts := testutil.CreateTestPoll(t, env.conn, "owner", "Lunch", time.Now(), "Pizza", "Sushi")
	path := "/polls/" + pollID + "/vote"

	tests := []struct {
		name      string
		user      *models.User
		optionID  string
		location  string
		flashKind string
		flashMsg  string
	}{
		{"no choice", voter, "", "/polls/" + pollID, middleware.FlashError, "Please select an option to vote"},
		{"unauthenticated", nil, opts[0], "/auth/login", middleware.FlashError, "You must be logged in to vote"},
		{"vote", voter, opts[0], "/polls/" + pollID, middleware.FlashSuccess, "Vote submitted successfully!"},
		{"duplicate", voter, opts[1], "/polls/" + pollID, middleware.FlashError, "You have already voted on this poll"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(testutil.MakeFormRequest(path, url.Values{"optionId": {tt.optionID}}), tt.user)
			assertRedirect(t, w, tt.location)
			if f := flashOf(t, w); f.Kind != tt.flashKind || f.Message != tt.flashMsg {
				t.Errorf("Unexpected flash: %+v", f)
			}
		})
	}

	// the page now reports the vote
	w := env.do(testutil.MakeRequest("GET", "/polls/"+pollID, nil, nil), voter)
	testutil.AssertContains(t, w, "You have already voted on this poll.")
}

func TestDeletePollForm(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateTestUser(t, env.conn, "owner@example.com")
	other := testutil.CreateTestUser(t, env.conn, "other@example.com")
	pollID, _ := testutil.CreateTestPoll(t, env.conn, owner.ID, "Mine", time.Now(), "A", "B")
	path := "/polls/" + pollID + "/delete"

	w := env.do(testutil.MakeFormRequest(path, url.Values{}), other)
	assertRedirect(t, w, "/polls")
	if f := flashOf(t, w); f.Message != "You can only delete your own polls" {
		t.Errorf("Unexpected flash: %+v", f)
	}

	w = env.do(testutil.MakeFormRequest(path, url.Values{}), owner)
	assertRedirect(t, w, "/polls")
	if f := flashOf(t, w); f.Kind != middleware.FlashSuccess || f.Message != "Poll deleted successfully" {
		t.Errorf("Unexpected flash: %+v", f)
	}
	if n := testutil.CountRows(t, env.conn, "polls", ""); n != 0 {
		t.Errorf("Expected poll to be deleted, %d remain", n)
	}

	paths := env.signal.Paths()
	if len(paths) != 2 || paths[0] != "/polls" || paths[1] != "/polls/"+pollID {
		t.Errorf("Unexpected revalidations: %v", paths)
	}
}
