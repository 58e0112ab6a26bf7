// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/polly/auth"
	"github.com/danielhkuo/polly/cliparse"
	"github.com/danielhkuo/polly/db"
	"github.com/danielhkuo/polly/models"
)

// TestDBURL is an in-memory SQLite database private to one connection
const TestDBURL = "file::memory:"

// TestSessionSecret signs session tokens in tests
const TestSessionSecret = "test-session-secret-0123456789"

// TestPassword is the password of users created by CreateTestUser
const TestPassword = "password123"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.SQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	cfg := cliparse.Default()
	cfg.DatabaseURL = TestDBURL
	cfg.DatabaseType = string(db.SQLite)
	cfg.SessionSecret = TestSessionSecret
	return cfg
}

// NewTestRedis starts an in-process Redis server and a client for it
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// CreateTestUser inserts a user with TestPassword and returns its identity
func CreateTestUser(t *testing.T, conn *sql.DB, email string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{ID: uuid.NewString(), Email: email}
	_, err = conn.Exec(`
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, user.ID, email, hash, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestPoll inserts a poll owned by ownerID and returns the poll id
// and option ids in order. createdAt orders listings.
func CreateTestPoll(t *testing.T, conn *sql.DB, ownerID, title string, createdAt time.Time, options ...string) (string, []string) {
	t.Helper()

	pollID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO polls (id, title, description, user_id, created_at)
		VALUES (?, ?, 'A test poll', ?, ?)
	`, pollID, title, ownerID, createdAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	optionIDs := make([]string, 0, len(options))
	for i, text := range options {
		optionIDs = append(optionIDs, AddTestOption(t, conn, pollID, text, i))
	}

	return pollID, optionIDs
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string, order int) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll_options (id, poll_id, text, sort_order)
		VALUES (?, ?, ?, ?)
	`, optionID, pollID, text, order)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// AddTestVote records a vote directly, bypassing duplicate checks
func AddTestVote(t *testing.T, conn *sql.DB, pollID, optionID, userID string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO votes (id, poll_id, poll_option_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, voteID, pollID, optionID, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// CountRows returns the number of rows in table matching where (may be empty)
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// SessionToken issues a session token for user signed with TestSessionSecret
func SessionToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := auth.NewSessions(TestSessionSecret, time.Hour, nil).Issue(user.ID, user.Email)
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	return token
}

// RecordingSignal collects revalidated paths
type RecordingSignal struct {
	mu    sync.Mutex
	paths []string
}

func (s *RecordingSignal) Revalidate(_ context.Context, path string) {
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
}

// Paths returns a copy of the recorded paths
func (s *RecordingSignal) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates a url-encoded form POST
func MakeFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertContains checks that the response body contains each fragment
func AssertContains(t *testing.T, w *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := w.Body.String()
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			t.Errorf("Expected body to contain %q. Body: %s", f, body)
		}
	}
}
