// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

Request-level wrappers:

  - WithLogging: slog request start/completion with duration
  - CORS: permissive cross-origin headers plus preflight handling
  - EnsureSession: hands every cookie-less caller a guest session id

JSON helpers used by all handlers:

  - JSONResponse / ErrorResponse: encode a body with a status
  - CoreError: single mapping from classified core errors to HTTP statuses
  - ParseJSONBody: decode a request body
*/
package middleware
