// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package errs defines the error taxonomy shared by the voting core.

Every failure the core can produce is classified at the point of occurrence
by wrapping one of the sentinel errors:

	ErrValidation      malformed or insufficient input
	ErrInvalidOption   option does not belong to the poll
	ErrPollClosed      poll inactive or past its expiry
	ErrPermission      actor not authorized for a mutation
	ErrUnauthenticated caller must be logged in
	ErrConflict        state-incompatible request (e.g. username taken)
	ErrContention      lock or transaction conflict; caller should retry
	ErrNotFound        unknown poll, option, or user

HTTPStatus performs the single class-to-status mapping used by the HTTP
layer, so handlers never hand-pick status codes for core errors.
*/
package errs
