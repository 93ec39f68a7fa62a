// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires the core services to URL patterns.

NewRouter builds the store, identity resolver, and the three core services
(poll lifecycle, vote ledger, result aggregator), constructs the handlers,
and registers routes on a Go 1.22+ ServeMux. The returned handler is the
mux wrapped with CORS and guest session middleware.
*/
package router
