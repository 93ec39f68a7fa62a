// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openpoll/openpoll/auth"
	"github.com/openpoll/openpoll/errs"
)

const testSecret = "test-secret"

func TestResolveGuest(t *testing.T) {
	resolver := NewResolver(testSecret)

	req := httptest.NewRequest("POST", "/polls/p1/vote", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	req.RemoteAddr = "1.2.3.4:5678"

	id, err := resolver.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id.Authenticated() {
		t.Error("Expected guest identity")
	}
	if id.SessionID != "sess-1" {
		t.Errorf("Expected session sess-1, got %s", id.SessionID)
	}
	if id.IPAddress != "1.2.3.4" {
		t.Errorf("Expected ip 1.2.3.4, got %s", id.IPAddress)
	}
}

func TestResolveCookieBeatsHeader(t *testing.T) {
	resolver := NewResolver(testSecret)

	req := httptest.NewRequest("GET", "/polls", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-session"})
	req.Header.Set("X-Session-ID", "header-session")

	id, err := resolver.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id.SessionID != "cookie-session" {
		t.Errorf("Expected cookie session to win, got %s", id.SessionID)
	}
}

func TestResolveBearerToken(t *testing.T) {
	resolver := NewResolver(testSecret)

	token, _, err := auth.GenerateToken("user-42", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/polls", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	id, err := resolver.Resolve(req)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !id.Authenticated() {
		t.Fatal("Expected authenticated identity")
	}
	if id.UserID != "user-42" {
		t.Errorf("Expected user-42, got %s", id.UserID)
	}
}

// A malformed token must fail the request, never downgrade to guest.
func TestResolveInvalidTokenFails(t *testing.T) {
	resolver := NewResolver(testSecret)

	req := httptest.NewRequest("POST", "/polls", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	req.Header.Set("X-Session-ID", "sess-1")

	_, err := resolver.Resolve(req)
	if !errors.Is(err, errs.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated, got %v", err)
	}
}

func TestCanVote(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		wantErr bool
	}{
		{"authenticated", Identity{UserID: "u1"}, false},
		{"guest with full fingerprint", Identity{SessionID: "s1", IPAddress: "1.2.3.4"}, false},
		{"guest missing session", Identity{IPAddress: "1.2.3.4"}, true},
		{"guest missing ip", Identity{SessionID: "s1"}, true},
		{"guest missing both", Identity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.CanVote()
			if tt.wantErr {
				if !errors.Is(err, errs.ErrValidation) {
					t.Errorf("Expected ErrValidation, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{"remote addr with port", "10.0.0.1:5000", nil, "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "1.2.3.4"},
		{"x-forwarded-for chain", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "1.2.3.4"},
		{"x-real-ip", "10.0.0.1:5000", map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}
