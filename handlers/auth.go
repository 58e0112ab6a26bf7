// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/polly/accounts"
	"github.com/danielhkuo/polly/auth"
	"github.com/danielhkuo/polly/middleware"
	"github.com/danielhkuo/polly/models"
	"github.com/danielhkuo/polly/views"
)

// AuthHandler serves registration, login and logout for both the JSON API
// and the HTML forms.
type AuthHandler struct {
	accounts      *accounts.Service
	sessions      *auth.Sessions
	secureCookies bool
}

func NewAuthHandler(svc *accounts.Service, sessions *auth.Sessions, secureCookies bool) *AuthHandler {
	return &AuthHandler{accounts: svc, sessions: sessions, secureCookies: secureCookies}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	h.respondWithSession(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	h.respondWithSession(w, r, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.endSession(w, r); err != nil {
		middleware.WriteError(w, models.StorageFailure("Failed to sign out", err))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.Result{Success: true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "You must be logged in")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{Success: true, User: *user})
}

// LoginPage handles GET /auth/login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r) != nil {
		http.Redirect(w, r, "/polls", http.StatusSeeOther)
		return
	}
	renderPage(w, r, http.StatusOK, "Login", views.Login("", ""))
}

// LoginForm handles POST /auth/login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ParseForm(w, r); err != nil {
		renderPage(w, r, http.StatusBadRequest, "Login", views.Login("", "Invalid form submission"))
		return
	}
	req := models.LoginRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	user, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		renderPage(w, r, models.KindOf(err).HTTPStatus(), "Login", views.Login(req.Email, models.MessageOf(err)))
		return
	}
	if _, err := h.startSession(w, user); err != nil {
		renderPage(w, r, http.StatusInternalServerError, "Login", views.Login(req.Email, models.UnexpectedMessage))
		return
	}

	http.Redirect(w, r, "/polls", http.StatusSeeOther)
}

// RegisterPage handles GET /auth/register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.CurrentUser(r) != nil {
		http.Redirect(w, r, "/polls", http.StatusSeeOther)
		return
	}
	renderPage(w, r, http.StatusOK, "Register", views.Register("", ""))
}

// RegisterForm handles POST /auth/register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ParseForm(w, r); err != nil {
		renderPage(w, r, http.StatusBadRequest, "Register", views.Register("", "Invalid form submission"))
		return
	}
	req := models.RegisterRequest{
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
	}

	user, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		renderPage(w, r, models.KindOf(err).HTTPStatus(), "Register", views.Register(req.Email, models.MessageOf(err)))
		return
	}
	if _, err := h.startSession(w, user); err != nil {
		renderPage(w, r, http.StatusInternalServerError, "Register", views.Register(req.Email, models.UnexpectedMessage))
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Registration successful!")
	http.Redirect(w, r, "/polls", http.StatusSeeOther)
}

// LogoutForm handles POST /auth/logout
func (h *AuthHandler) LogoutForm(w http.ResponseWriter, r *http.Request) {
	if err := h.endSession(w, r); err != nil {
		middleware.SetFlash(w, middleware.FlashError, "Failed to sign out")
		http.Redirect(w, r, "/polls", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.startSession(w, user)
	if err != nil {
		middleware.WriteError(w, models.Unexpected(err))
		return
	}
	middleware.JSONResponse(w, status, models.SessionResponse{
		Success: true,
		User:    *user,
		Token:   token,
	})
}

// startSession issues a token for user and stores it in the session cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, user *models.User) (string, error) {
	token, session, err := h.sessions.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		return "", err
	}
	middleware.SetSessionCookie(w, token, session.ExpiresAt, h.secureCookies)
	return token, nil
}

// endSession revokes the caller's token and clears the cookie. The cookie
// is cleared even when revocation fails.
func (h *AuthHandler) endSession(w http.ResponseWriter, r *http.Request) error {
	middleware.ClearSessionCookie(w, h.secureCookies)

	token := middleware.SessionToken(r)
	if token == "" {
		return nil
	}
	if err := h.sessions.Revoke(r.Context(), token); err != nil {
		slog.ErrorContext(r.Context(), "failed to revoke session", "error", err)
		return err
	}
	slog.InfoContext(r.Context(), "user logged out")
	return nil
}
