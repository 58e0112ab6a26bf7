// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/models"
	"github.com/danielhkuo/polly/testutil"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestRegisterAPI(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTestUser(t, env.conn, "taken@example.com")

	tests := []struct {
		name           string
		body           models.RegisterRequest
		expectedStatus int
		expectedError  string
	}{
		{"valid", models.RegisterRequest{Email: " New@Example.com ", Password: "secret1", ConfirmPassword: "secret1"}, http.StatusCreated, ""},
		{"mismatch", models.RegisterRequest{Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret2"}, http.StatusBadRequest, "Passwords do not match"},
		{"taken", models.RegisterRequest{Email: "TAKEN@example.com", Password: "secret1", ConfirmPassword: "secret1"}, http.StatusConflict, "An account with this email already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(testutil.MakeRequest("POST", "/api/auth/register", tt.body, nil), nil)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedError != "" {
				testutil.AssertContains(t, w, `"error":"`+tt.expectedError+`"`)
				if sessionCookie(w) != nil {
					t.Error("Failed registration must not start a session")
				}
				return
			}

			var resp models.SessionResponse
			testutil.AssertJSON(t, w, &resp)
			if !resp.Success || resp.Token == "" || resp.User.Email != "new@example.com" {
				t.Errorf("Unexpected response: %+v", resp)
			}
			if c := sessionCookie(w); c == nil || c.Value != resp.Token || !c.HttpOnly {
				t.Errorf("Expected HttpOnly session cookie with the token, got %+v", c)
			}
		})
	}
}

func TestLoginLogoutAPI(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.conn, "alice@example.com")

	// wrong password
	w := env.do(testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{Email: user.Email, Password: "wrong"}, nil), nil)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	testutil.AssertContains(t, w, "Invalid email or password")

	// login
	w = env.do(testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{Email: user.Email, Password: testutil.TestPassword}, nil), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.User.ID != user.ID {
		t.Fatalf("Expected user %s, got %+v", user.ID, resp.User)
	}
	bearer := map[string]string{"Authorization": "Bearer " + resp.Token}

	// me
	w = env.do(testutil.MakeRequest("GET", "/api/auth/me", nil, bearer), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w, user.Email)

	// logout revokes the token
	w = env.do(testutil.MakeRequest("POST", "/api/auth/logout", nil, bearer), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	if c := sessionCookie(w); c == nil || c.MaxAge >= 0 {
		t.Errorf("Expected session cookie to be cleared, got %+v", c)
	}

	w = env.do(testutil.MakeRequest("GET", "/api/auth/me", nil, bearer), nil)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestLoginForm(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.conn, "alice@example.com")

	t.Run("page", func(t *testing.T) {
		w := env.do(testutil.MakeRequest("GET", "/auth/login", nil, nil), nil)
		testutil.AssertStatus(t, w, http.StatusOK)
		testutil.AssertContains(t, w, `action="/auth/login"`)
	})

	t.Run("already logged in", func(t *testing.T) {
		w := env.do(testutil.MakeRequest("GET", "/auth/login", nil, nil), user)
		assertRedirect(t, w, "/polls")
	})

	t.Run("bad credentials re-render the form", func(t *testing.T) {
		form := url.Values{"email": {"alice@example.com"}, "password": {"nope"}}
		w := env.do(testutil.MakeFormRequest("/auth/login", form), nil)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
		testutil.AssertContains(t, w, "Invalid email or password", `value="alice@example.com"`)
	})

	t.Run("success", func(t *testing.T) {
		form := url.Values{"email": {"alice@example.com"}, "password": {testutil.TestPassword}}
		w := env.do(testutil.MakeFormRequest("/auth/login", form), nil)
		assertRedirect(t, w, "/polls")
		if sessionCookie(w) == nil {
			t.Error("Expected session cookie")
		}
	})
}

func TestRegisterForm(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{"email": {"bob@example.com"}, "password": {"secret1"}, "confirmPassword": {"other"}}
	w := env.do(testutil.MakeFormRequest("/auth/register", form), nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertContains(t, w, "Passwords do not match")

	form.Set("confirmPassword", "secret1")
	w = env.do(testutil.MakeFormRequest("/auth/register", form), nil)
	assertRedirect(t, w, "/polls")
	if f := flashOf(t, w); f.Kind != middleware.FlashSuccess || f.Message != "Registration successful!" {
		t.Errorf("Unexpected flash: %+v", f)
	}
	if n := testutil.CountRows(t, env.conn, "users", "email = ?", "bob@example.com"); n != 1 {
		t.Errorf("Expected user to be stored, got %d", n)
	}
}

func TestLogoutForm(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateTestUser(t, env.conn, "alice@example.com")
	token, _, err := env.sessions.Issue(user.ID, user.Email)
	if err != nil {
		t.Fatal(err)
	}

	req := testutil.MakeFormRequest("/auth/logout", url.Values{})
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w := env.do(req, nil)
	assertRedirect(t, w, "/auth/login")

	if _, err := env.sessions.Verify(req.Context(), token); err == nil {
		t.Error("Expected token to be revoked")
	}
}
