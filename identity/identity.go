// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/openpoll/openpoll/auth"
	"github.com/openpoll/openpoll/errs"
)

// SessionCookie is set by the session middleware for guest tracking.
const SessionCookie = "op_session"

// Identity is the resolved caller context passed into every core operation:
// an authenticated user id, or the guest fingerprint (session id + IP).
type Identity struct {
	UserID    string // empty for guests
	SessionID string
	IPAddress string
}

func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// CanVote enforces the voter completeness rule: authenticated callers
// always qualify; a guest needs both halves of the fingerprint.
func (id Identity) CanVote() error {
	if id.Authenticated() {
		return nil
	}
	if id.SessionID == "" || id.IPAddress == "" {
		return fmt.Errorf("session id and ip address are required for guest voting: %w", errs.ErrValidation)
	}
	return nil
}

// Resolver derives an Identity from a request. Stateless.
type Resolver struct {
	jwtSecret string
}

func NewResolver(jwtSecret string) *Resolver {
	return &Resolver{jwtSecret: jwtSecret}
}

// Resolve inspects the Authorization header, session cookie/header, and
// peer address. A present-but-invalid bearer token is an authentication
// failure, never a silent fallback to guest.
func (r *Resolver) Resolve(req *http.Request) (Identity, error) {
	id := Identity{
		SessionID: sessionID(req),
		IPAddress: ClientIP(req),
	}

	token := bearerToken(req)
	if token == "" {
		return id, nil
	}

	claims, err := auth.ParseToken(token, r.jwtSecret)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid access token: %w", errs.ErrUnauthenticated)
	}
	id.UserID = claims.UserID
	return id, nil
}

func bearerToken(req *http.Request) string {
	value := req.Header.Get("Authorization")
	if value == "" {
		return ""
	}
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func sessionID(req *http.Request) string {
	if c, err := req.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return req.Header.Get("X-Session-ID")
}

// ClientIP extracts the client IP address
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr
func ClientIP(req *http.Request) string {
	// Check X-Forwarded-For (load balancers)
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP (nginx)
	if xri := req.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	// Strip port if present
	addr := req.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
