// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/openpoll/openpoll/auth"
	"github.com/openpoll/openpoll/cliparse"
	"github.com/openpoll/openpoll/db"
)

// SetupTestDB creates a fresh file-backed SQLite database with the full
// schema in the test's temp directory. The DSN takes write locks up front
// (_txlock=immediate) and waits on busy instead of failing, so tests that
// hammer one poll from many goroutines serialize rather than error.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "openpoll_test.db")
	dsn := "file:" + path + "?_txlock=immediate" +
		"&_pragma=busy_timeout(10000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)"

	conn, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8080,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
	}
}

// CreateTestUser inserts a user with a bcrypt-hashed password and returns
// the user ID.
func CreateTestUser(t *testing.T, conn *sql.DB, username, password string) string {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID := auth.NewID()
	_, err = conn.Exec(`
		INSERT INTO app_user (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, username, username+"@example.com", hash, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestPoll inserts an active poll owned by ownerID and returns its ID.
// Pass a nil expiresAt for a poll without expiry.
func CreateTestPoll(t *testing.T, conn *sql.DB, ownerID, question string, expiresAt *time.Time) string {
	t.Helper()

	pollID := auth.NewID()
	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO poll (id, question, expires_at, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, pollID, question, expiresAt, true, ownerID, now, now)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string, position int) string {
	t.Helper()

	optionID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO option (id, poll_id, option_text, position)
		VALUES ($1, $2, $3, $4)
	`, optionID, pollID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// ClosePoll flips the poll inactive directly in storage.
func ClosePoll(t *testing.T, conn *sql.DB, pollID string) {
	t.Helper()

	_, err := conn.Exec(`UPDATE poll SET active = $1, updated_at = $2 WHERE id = $3`,
		false, time.Now().UTC(), pollID)
	if err != nil {
		t.Fatalf("Failed to close test poll: %v", err)
	}
}

// AuthHeader returns an Authorization header value with a freshly signed
// token for the user, using the GetTestConfig secret.
func AuthHeader(t *testing.T, userID string) string {
	t.Helper()

	cfg := GetTestConfig()
	token, _, err := auth.GenerateToken(userID, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return "Bearer " + token
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
