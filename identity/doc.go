// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity resolves a voter identity from an HTTP request.

Authenticated callers present a Bearer JWT; the resolver yields their user
id. Everyone else is a guest identified by the fingerprint (session id, IP
address), where the session id comes from the op_session cookie or the
X-Session-ID header and the IP from X-Forwarded-For / X-Real-IP /
RemoteAddr.

An invalid bearer token is rejected outright rather than downgraded to a
guest identity. Guest completeness (both fingerprint halves present) is
checked by Identity.CanVote on the vote path only; reads tolerate partial
identities.
*/
package identity
