// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the vote-recording core.

CastVote is its single operation: given a poll, an option, and a resolved
identity, it records a first vote (created) or moves the identity's
existing vote to the new option (updated). Authenticated votes key on
(poll, user); guest votes key on (poll, session id, IP address).

Atomicity lives in the store: each attempt is one transaction whose insert
races are broken by the storage uniqueness constraint. The ledger adds the
guest-completeness check, the bounded retry on retryable conflicts, and the
created/updated result contract. Votes for different identities never
contend anywhere above the storage engine.
*/
package ledger
