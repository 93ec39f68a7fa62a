// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls owns the poll lifecycle and the access policy.

# Lifecycle

A poll is created active by an authenticated owner with at least two
options whose texts are unique after trimming and case folding. The owner
may close, reopen, or edit it; both Close and Reopen are idempotent, so
re-closing a closed poll or re-opening an open one succeeds silently.

Votability is a pure predicate evaluated lazily against the wall clock:

	polls.Votable(p, now) == p.Active && (p.ExpiresAt == nil || p.ExpiresAt.After(now))

There is no expiry sweep; the vote path checks this inside its transaction.

# Policy

policy.go holds the two authorization rules: CanCreate (any authenticated
user) and CanMutate (authenticated owner only). Reads, including results,
are open to everyone and never consult the policy.
*/
package polls
