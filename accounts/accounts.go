// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package accounts

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/danielhkuo/polly/auth"
	"github.com/danielhkuo/polly/db"
	"github.com/danielhkuo/polly/models"
)

const invalidCredentials = "Invalid email or password"

var registerMessages = map[string]string{
	"Email.required":    "Email is required",
	"Email.email":       "Please enter a valid email address",
	"Email.max":         "Please enter a valid email address",
	"Password.required": "Password is required",
	"Password.min":      "Password must be at least 6 characters",
	"Password.max":      "Password must be at most 72 characters",
}

// Service stores local user accounts.
type Service struct {
	conn     *sql.DB
	dialect  db.Dialect
	validate *validator.Validate
}

func NewService(conn *sql.DB, dialect db.Dialect) *Service {
	return &Service{
		conn:     conn,
		dialect:  dialect,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register creates an account. Emails are case-insensitive.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return nil, models.InvalidInput(registerMessage(err))
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return nil, models.InvalidInput("Password must be at most 72 bytes")
	}
	if req.Password != req.ConfirmPassword {
		return nil, models.InvalidInput("Passwords do not match")
	}

	var existing string
	err := s.conn.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT id FROM users WHERE email = ?
	`), req.Email).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		slog.ErrorContext(ctx, "failed to query user", "error", err)
		return nil, models.StorageFailure("Failed to create account", err)
	default:
		return nil, models.Conflict("An account with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, models.Unexpected(err)
	}

	user := &models.User{ID: uuid.NewString(), Email: req.Email}
	_, err = s.conn.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`), user.ID, user.Email, hash, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.Conflict("An account with this email already exists")
		}
		slog.ErrorContext(ctx, "failed to insert user", "error", err)
		return nil, models.StorageFailure("Failed to create account", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials. Unknown emails and wrong passwords produce the
// same error.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.InvalidInput("Email and password are required")
	}

	var user models.User
	var hash string
	err := s.conn.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT id, email, password_hash FROM users WHERE email = ?
	`), email).Scan(&user.ID, &user.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.Unauthorized(invalidCredentials)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query user", "error", err)
		return nil, models.StorageFailure("Failed to sign in", err)
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			slog.ErrorContext(ctx, "failed to check password", "error", err, "user_id", user.ID)
		}
		return nil, models.Unauthorized(invalidCredentials)
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func registerMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := registerMessages[verrs[0].StructField()+"."+verrs[0].Tag()]; ok {
			return msg
		}
	}
	return "Invalid registration"
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
