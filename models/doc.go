// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: username, email, password
  - LoginRequest: username, password
  - CreatePollRequest: question, expires_at, options ([]string)
  - UpdatePollRequest: question and/or active (partial update)
  - CastVoteRequest: option, optional session_id fallback

# Response Types

  - RegisterResponse: id, username, email
  - LoginResponse: token, expires_at
  - CastVoteResponse: status ("created" or "updated"), detail
  - PollResponse: poll, options, human-readable expires_in
  - ResultsResponse: question, results ([{option, votes}])
  - ErrorResponse: error, message

# Domain Types

  - User: account with bcrypt password hash
  - Poll: question, optional expiry, active flag, owner
  - Option: one selectable answer belonging to exactly one poll
  - Vote: authenticated vote, unique per (poll, user)
  - GuestVote: guest vote, unique per (poll, session, IP)
  - PollView: append-only view audit record
  - OptionCount: merged per-option tally from storage
*/
package models
