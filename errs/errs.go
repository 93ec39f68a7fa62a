// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package errs

import (
	"errors"
	"net/http"
)

// Sentinel errors for the voting core. Callers classify with errors.Is;
// call sites add context with fmt.Errorf("...: %w", ...).
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidOption   = errors.New("invalid option for this poll")
	ErrPollClosed      = errors.New("voting is closed for this poll")
	ErrPermission      = errors.New("permission denied")
	ErrUnauthenticated = errors.New("authentication required")
	ErrConflict        = errors.New("conflicting state")
	ErrContention      = errors.New("storage contention")
	ErrNotFound        = errors.New("not found")
)

// HTTPStatus maps a classified error to its response status code.
// ErrContention maps to 503: it is the only error a client should retry.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrPollClosed):
		return http.StatusConflict
	case errors.Is(err, ErrContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a caller-level retry is the recommended recovery.
func Retryable(err error) bool {
	return errors.Is(err, ErrContention)
}
