// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the OpenPoll API server.

OpenPoll is a poll/voting backend: authenticated users create polls with
two or more options, anyone (logged in or guest) casts exactly one vote per
poll with change-my-vote semantics, and anyone can read aggregated results.

# Starting the Server

The server is configured through environment variables or CLI flags:

	DATABASE_URL=polls.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 8080 -t sqlite -d polls.db -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string or SQLite path
  - JWT_SECRET (-jwt-secret): secret for access token signing

Optional settings:

  - PORT (-p): server port (default: 8080)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TOKEN_TTL (-token-ttl): access token lifetime (default: 24h)

# Architecture

The voting core is split from the HTTP surface:

  - identity: resolves caller identity (JWT user, or guest session+IP)
  - polls: poll lifecycle and access policy
  - ledger: the vote-recording core (atomic per-identity upsert)
  - results: on-demand tally aggregation
  - store: SQL repositories (Postgres / SQLite)
  - handlers, router, middleware: HTTP layer
  - auth, cliparse, db, models, errs: shared plumbing

See package documentation for each component.
*/
package main
