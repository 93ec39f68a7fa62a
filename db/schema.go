// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database engine. dbType is "postgres"
// (lib/pq) or "sqlite" (modernc.org/sqlite, pure Go — used for embedded and
// test deployments).
func Open(dbType, url string) (*sql.DB, error) {
	switch dbType {
	case "postgres":
		return sql.Open("postgres", url)
	case "sqlite":
		return sql.Open("sqlite", url)
	default:
		return nil, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", dbType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The DDL is restricted to the dialect both engines share: TEXT ids
// generated in Go, timestamps written by the application (no NOW()
// defaults), and plain UNIQUE/PRIMARY KEY constraints. The composite
// primary keys on vote and guest_vote are the uniqueness constraints the
// vote ledger's upsert relies on; they are storage-level on purpose so
// racing inserts cannot both land.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    expires_at TIMESTAMP,
    active BOOLEAN NOT NULL,
    created_by TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_created_by ON poll(created_by);

-- Options (position preserves creation order for result ordering)
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_text TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_option_poll_id ON option(poll_id);

-- Authenticated votes: one row per (poll, user)
CREATE TABLE IF NOT EXISTS vote (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id) ON DELETE CASCADE,
    session_id TEXT,
    ip_address TEXT,
    voted_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_option_id ON vote(option_id);

-- Guest votes: one row per (poll, session, IP) fingerprint
CREATE TABLE IF NOT EXISTS guest_vote (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id TEXT NOT NULL REFERENCES option(id) ON DELETE CASCADE,
    session_id TEXT NOT NULL,
    ip_address TEXT NOT NULL,
    voted_at TIMESTAMP NOT NULL,
    PRIMARY KEY (poll_id, session_id, ip_address)
);

CREATE INDEX IF NOT EXISTS idx_guest_vote_option_id ON guest_vote(option_id);

-- Poll view audit trail: append-only, no uniqueness
CREATE TABLE IF NOT EXISTS poll_view (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    user_id TEXT REFERENCES app_user(id) ON DELETE SET NULL,
    session_id TEXT,
    ip_address TEXT,
    viewed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_poll_view_poll_id ON poll_view(poll_id);
`
