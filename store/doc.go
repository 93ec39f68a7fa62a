// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the SQL persistence layer behind the voting core.

It exposes narrow atomic operations per entity (users, polls, options,
votes, guest votes, poll views) rather than generic query objects, so the
core packages can declare small consumer interfaces and tests can swap in
fakes.

# The vote transaction

CastUserVote and CastGuestVote are the only multi-statement writes on the
hot path. Each one runs validate-then-update-then-insert inside a single
transaction; the composite primary keys on vote and guest_vote guarantee
that two racing first-time votes cannot both insert. The loser's constraint
violation is reported as errs.ErrContention and the ledger retries it, at
which point the update path wins. Distinct (poll, identity) keys touch
disjoint rows and proceed in parallel; there is no in-process lock.

# Error classification

Driver errors are classified where they occur: unique violations become
errs.ErrConflict or errs.ErrContention depending on the site, lock/busy
failures (Postgres 55P03/40001/40P01, SQLite BUSY) always become
errs.ErrContention, and absent rows become errs.ErrNotFound.
*/
package store
