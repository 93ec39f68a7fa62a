// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the OpenPoll API.

# Handler Types

Each handler is a struct with its core-service dependencies injected via a
constructor:

  - UserHandler: registration and login (store + config)
  - PollHandler: poll lifecycle (polls service + identity resolver)
  - VotingHandler: vote casting (ledger + identity resolver)
  - ResultsHandler: tally retrieval (results service)

# Poll Lifecycle

	POST  /polls               → CreatePoll (authenticated)
	GET   /polls               → ListPolls
	GET   /polls/{id}          → GetPoll (records a PollView)
	PATCH /polls/{id}          → UpdatePoll (owner)
	POST  /polls/{id}/close    → ClosePoll (owner, idempotent)
	POST  /polls/{id}/reopen   → ReopenPoll (owner, idempotent)

# Voting Flow

	POST /polls/{id}/vote      → CastVote

The caller identity comes from the Authorization header (JWT) or, for
guests, the session cookie / X-Session-ID header plus client IP. A first
vote answers 201 Created, a changed vote 200 OK; the stored row always
reflects only the latest option.

# Results

	GET /polls/{id}/results    → GetResults

Returns the question and per-option counts, authenticated and guest votes
summed, in option creation order.

# Error Mapping

Handlers never pick status codes for core failures; middleware.CoreError
maps the errs taxonomy onto the wire in one place.
*/
package handlers
