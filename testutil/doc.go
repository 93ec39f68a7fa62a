// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package testutil provides shared helpers for OpenPoll tests.

SetupTestDB opens a per-test SQLite database (pure Go driver, no external
service) with the production schema, configured so concurrent write
transactions queue on the write lock instead of failing. Seeding helpers
(CreateTestUser, CreateTestPoll, AddTestOption) insert fixtures directly;
MakeRequest / AssertStatus / AssertJSON cover the HTTP side.
*/
package testutil
