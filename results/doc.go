// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package results aggregates per-option vote counts for a poll, merging
// authenticated and guest tallies. Read-only; bypasses the ledger's write
// path entirely.
package results
