// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote cast outcomes. The distinction is user-visible (201 vs 200) but the
// stored state is the same either way.
const (
	VoteCreated = "created"
	VoteUpdated = "updated"
)

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreatePollRequest struct {
	Question  string     `json:"question"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Options   []string   `json:"options"`
}

type UpdatePollRequest struct {
	Question *string `json:"question,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// SessionID is a fallback for clients that carry no cookie; the session
// middleware and X-Session-ID header take precedence.
type CastVoteRequest struct {
	Option    string `json:"option"`
	SessionID string `json:"session_id,omitempty"`
}

// Response types

type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CastVoteResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

type PollResponse struct {
	Poll      Poll     `json:"poll"`
	Options   []Option `json:"options"`
	ExpiresIn string   `json:"expires_in,omitempty"`
}

type OptionResult struct {
	Option string `json:"option"`
	Votes  int    `json:"votes"`
}

type ResultsResponse struct {
	Question string         `json:"question"`
	Results  []OptionResult `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Poll struct {
	ID        string     `json:"id"`
	Question  string     `json:"question"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `json:"active"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Option struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Vote is one authenticated user's vote on a poll. At most one row exists
// per (poll, user); a repeat vote moves the row to the new option.
type Vote struct {
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"-"`
	IPAddress string    `json:"-"`
	VotedAt   time.Time `json:"voted_at"`
}

// GuestVote is keyed on the guest fingerprint (poll, session, IP) instead
// of a user id, with the same one-row-per-identity upsert contract.
type GuestVote struct {
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	SessionID string    `json:"-"`
	IPAddress string    `json:"-"`
	VotedAt   time.Time `json:"voted_at"`
}

// PollView is an append-only audit record of poll retrievals. Not in the
// vote hot path.
type PollView struct {
	ID        string
	PollID    string
	UserID    *string
	SessionID string
	IPAddress string
	ViewedAt  time.Time
}

// OptionCount is a per-option tally row produced by the storage layer;
// votes already merge authenticated and guest counts.
type OptionCount struct {
	OptionID string
	Text     string
	Votes    int
}
