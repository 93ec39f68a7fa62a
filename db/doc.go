// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database connection and creates the schema.

Two engines are supported through database/sql: PostgreSQL (lib/pq) for
production and SQLite (modernc.org/sqlite) for embedded and test runs. The
DDL sticks to the common dialect of the two, so there is a single schema.

The vote and guest_vote composite primary keys carry the core uniqueness
contract: at most one vote row per identity per poll, enforced by the
storage engine rather than application logic.
*/
package db
